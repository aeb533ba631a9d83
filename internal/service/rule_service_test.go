package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/payroll"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleFixture struct {
	categories *memCategoryRepo
	ranges     *memRangeRepo
	rules      *memRuleRepo
	svc        RuleService
}

func newRuleFixture() *ruleFixture {
	f := &ruleFixture{
		categories: newMemCategoryRepo(),
		ranges:     newMemRangeRepo(),
		rules:      newMemRuleRepo(),
	}
	f.svc = NewRuleService(f.rules, f.categories, f.ranges, newMemAuditRepo())
	return f
}

func (f *ruleFixture) addCategory(t *testing.T, name string) uuid.UUID {
	t.Helper()
	c := model.SalaryCategory{Name: name, Kind: model.CategoryKindDeduction}
	require.NoError(t, f.categories.Create(context.Background(), &c))
	return c.ID
}

func TestCreateRuleValidatesReferences(t *testing.T) {
	f := newRuleFixture()
	catID := f.addCategory(t, "Income Tax")

	_, err := f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:      uuid.New().String(),
		CalculationType: model.CalculationPercentage,
		Value:           "8.5",
	}, "")
	assert.Error(t, err, "unknown category must be rejected")

	_, err = f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:      catID.String(),
		RangeID:         uuid.New().String(),
		CalculationType: model.CalculationPercentage,
		Value:           "8.5",
	}, "")
	assert.Error(t, err, "unknown range must be rejected")

	_, err = f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:      catID.String(),
		CalculationType: model.CalculationPercentage,
		Value:           "-1",
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)
}

func TestCreateRuleRejectsSelfReference(t *testing.T) {
	f := newRuleFixture()
	catID := f.addCategory(t, "Income Tax")

	_, err := f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:          catID.String(),
		CalculationType:     model.CalculationPercentage,
		Value:               "8.5",
		AppliesToCategoryID: catID.String(),
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrDependencyCycle)
}

func TestCreateRuleRejectsClosingCycle(t *testing.T) {
	f := newRuleFixture()
	a := f.addCategory(t, "A")
	b := f.addCategory(t, "B")

	_, err := f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:          a.String(),
		CalculationType:     model.CalculationPercentage,
		Value:               "10",
		AppliesToCategoryID: b.String(),
	}, "")
	require.NoError(t, err)

	// B -> A would close A -> B -> A.
	_, err = f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:          b.String(),
		CalculationType:     model.CalculationPercentage,
		Value:               "10",
		AppliesToCategoryID: a.String(),
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrDependencyCycle)

	rules, listErr := f.rules.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, rules, 1, "rejected rule must not be stored")
}

func TestUpdateRuleRechecksCycle(t *testing.T) {
	f := newRuleFixture()
	a := f.addCategory(t, "A")
	b := f.addCategory(t, "B")

	created, err := f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:          a.String(),
		CalculationType:     model.CalculationPercentage,
		Value:               "10",
		AppliesToCategoryID: b.String(),
	}, "")
	require.NoError(t, err)

	other, err := f.svc.CreateRule(context.Background(), CreateRuleRequest{
		CategoryID:      b.String(),
		CalculationType: model.CalculationFixed,
		Value:           "100",
	}, "")
	require.NoError(t, err)

	// Retargeting B's rule onto A closes the cycle through the existing rule.
	_, err = f.svc.UpdateRule(context.Background(), other.ID, UpdateRuleRequest{
		CategoryID:          b.String(),
		CalculationType:     model.CalculationFixed,
		Value:               "100",
		AppliesToCategoryID: a.String(),
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrDependencyCycle)

	// Updating the first rule to drop its dependency is fine.
	updated, err := f.svc.UpdateRule(context.Background(), created.ID, UpdateRuleRequest{
		CategoryID:      a.String(),
		CalculationType: model.CalculationPercentage,
		Value:           "12",
	}, "")
	require.NoError(t, err)
	assert.Nil(t, updated.AppliesToCategoryID)
	assert.Equal(t, "12.0000", updated.Value)
}
