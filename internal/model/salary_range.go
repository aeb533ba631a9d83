package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryRange is a salary bracket [MinAmount, MaxAmount) with an associated
// percentage. MaxAmount NULL means the bracket is unbounded above.
// Brackets used by the same rule set must not overlap (validated on write).
type SalaryRange struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	MinAmount   decimal.Decimal  `gorm:"type:decimal(15,2);not null;index" json:"min_amount"`
	MaxAmount   *decimal.Decimal `gorm:"type:decimal(15,2)" json:"max_amount"` // NULL = +inf
	Percentage  decimal.Decimal  `gorm:"type:decimal(10,4);not null" json:"percentage"`
	Description string           `gorm:"type:text" json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Contains reports whether amount falls inside [MinAmount, MaxAmount).
func (r SalaryRange) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(r.MinAmount) {
		return false
	}
	if r.MaxAmount == nil {
		return true
	}
	return amount.LessThan(*r.MaxAmount)
}
