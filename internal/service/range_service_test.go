package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/payroll"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRangeFixture() (RangeService, *memRangeRepo, *memRuleRepo) {
	ranges := newMemRangeRepo()
	rules := newMemRuleRepo()
	svc := NewRangeService(ranges, rules, newMemAuditRepo())
	return svc, ranges, rules
}

func TestCreateRangeRejectsOverlap(t *testing.T) {
	svc, _, _ := newRangeFixture()

	_, err := svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "0-50k",
		MinAmount:  "0",
		MaxAmount:  "50000",
		Percentage: "5",
	}, "")
	require.NoError(t, err)

	_, err = svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "40k-80k",
		MinAmount:  "40000",
		MaxAmount:  "80000",
		Percentage: "10",
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)

	// Exclusive upper bound: starting exactly at the previous max is fine.
	_, err = svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "50k-80k",
		MinAmount:  "50000",
		MaxAmount:  "80000",
		Percentage: "10",
	}, "")
	assert.NoError(t, err)
}

func TestCreateRangeValidatesBounds(t *testing.T) {
	svc, _, _ := newRangeFixture()

	_, err := svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "bad",
		MinAmount:  "50000",
		MaxAmount:  "40000",
		Percentage: "5",
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)

	_, err = svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "bad",
		MinAmount:  "-1",
		Percentage: "5",
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)
}

func TestFindBracketUnboundedTop(t *testing.T) {
	svc, _, _ := newRangeFixture()

	_, err := svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "120k+",
		MinAmount:  "120000",
		Percentage: "20",
	}, "")
	require.NoError(t, err)

	found, err := svc.FindBracket(context.Background(), decimal.RequireFromString("1000000"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "120k+", found.Name)
	assert.Nil(t, found.MaxAmount)

	missed, err := svc.FindBracket(context.Background(), decimal.RequireFromString("100"))
	require.NoError(t, err)
	assert.Nil(t, missed)
}

func TestDeleteRangeBlockedByRules(t *testing.T) {
	svc, ranges, rules := newRangeFixture()

	created, err := svc.CreateRange(context.Background(), CreateRangeRequest{
		Name:       "0-50k",
		MinAmount:  "0",
		MaxAmount:  "50000",
		Percentage: "5",
	}, "")
	require.NoError(t, err)

	all, err := ranges.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, rules.Create(context.Background(), &model.SalaryRule{
		CategoryID:      all[0].ID, // any uuid works for the count
		RangeID:         &all[0].ID,
		CalculationType: model.CalculationPercentage,
		Value:           decimal.RequireFromString("5"),
	}))

	err = svc.DeleteRange(context.Background(), created.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrReferentialIntegrity)
}
