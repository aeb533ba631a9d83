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

func newCategoryFixture() (CategoryService, *memCategoryRepo, *memRuleRepo) {
	categories := newMemCategoryRepo()
	rules := newMemRuleRepo()
	svc := NewCategoryService(categories, rules, newMemAuditRepo())
	return svc, categories, rules
}

func TestCreateCategoryRejectsUnknownKind(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	_, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{
		Name: "Income Tax",
		Kind: "TAX",
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)
}

func TestDeleteCategoryBlockedByRules(t *testing.T) {
	svc, categories, rules := newCategoryFixture()

	cat := model.SalaryCategory{Name: "Income Tax", Kind: model.CategoryKindDeduction}
	require.NoError(t, categories.Create(context.Background(), &cat))
	require.NoError(t, rules.Create(context.Background(), &model.SalaryRule{
		CategoryID:      cat.ID,
		CalculationType: model.CalculationPercentage,
		Value:           decimal.RequireFromString("8.5"),
	}))

	err := svc.DeleteCategory(context.Background(), cat.ID.String(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrReferentialIntegrity)

	var refErr *payroll.ReferentialIntegrityError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, int64(1), refErr.RuleCount)

	// Still present.
	_, err = categories.FindByID(context.Background(), cat.ID)
	assert.NoError(t, err)
}

func TestDeleteCategoryBlockedByAppliesToReference(t *testing.T) {
	svc, categories, rules := newCategoryFixture()

	base := model.SalaryCategory{Name: "Allowance", Kind: model.CategoryKindAllowance}
	require.NoError(t, categories.Create(context.Background(), &base))
	dependent := model.SalaryCategory{Name: "Allowance Tax", Kind: model.CategoryKindDeduction}
	require.NoError(t, categories.Create(context.Background(), &dependent))

	// The only rule lives on the dependent category but computes from base.
	require.NoError(t, rules.Create(context.Background(), &model.SalaryRule{
		CategoryID:          dependent.ID,
		CalculationType:     model.CalculationPercentage,
		Value:               decimal.RequireFromString("5"),
		AppliesToCategoryID: &base.ID,
	}))

	err := svc.DeleteCategory(context.Background(), base.ID.String(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrReferentialIntegrity)
}

func TestDeleteCategoryWithoutRules(t *testing.T) {
	svc, categories, _ := newCategoryFixture()

	cat := model.SalaryCategory{Name: "Unused", Kind: model.CategoryKindAddition}
	require.NoError(t, categories.Create(context.Background(), &cat))

	require.NoError(t, svc.DeleteCategory(context.Background(), cat.ID.String(), ""))

	_, err := categories.FindByID(context.Background(), cat.ID)
	assert.Error(t, err)
}

func TestUpdateCategoryKindImmutableWhileReferenced(t *testing.T) {
	svc, categories, rules := newCategoryFixture()

	cat := model.SalaryCategory{Name: "Income Tax", Kind: model.CategoryKindDeduction}
	require.NoError(t, categories.Create(context.Background(), &cat))
	require.NoError(t, rules.Create(context.Background(), &model.SalaryRule{
		CategoryID:      cat.ID,
		CalculationType: model.CalculationPercentage,
		Value:           decimal.RequireFromString("8.5"),
	}))

	_, err := svc.UpdateCategory(context.Background(), cat.ID.String(), UpdateCategoryRequest{
		Name: "Income Tax",
		Kind: model.CategoryKindAddition,
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)

	// Renaming without touching kind or the percentage flag stays allowed.
	updated, err := svc.UpdateCategory(context.Background(), cat.ID.String(), UpdateCategoryRequest{
		Name: "Personal Income Tax",
		Kind: model.CategoryKindDeduction,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Personal Income Tax", updated.Name)
}
