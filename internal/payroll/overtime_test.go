package payroll_test

import (
	"testing"

	"backend/internal/payroll"

	"github.com/stretchr/testify/assert"
)

func TestOvertimeAmount(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		hours string
		want  string
	}{
		{"reference case", "72000", "10", "4500.00"},
		{"zero hours", "72000", "0", "0.00"},
		{"fractional hours", "72000", "2.5", "1125.00"},
		{"rounding", "100000", "1", "625.00"},
		{"odd salary rounds to cents", "77777", "3", "1458.32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.OvertimeAmount(dec(tt.base), dec(tt.hours))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
