package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/payroll"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payrollFixture struct {
	employees   *memEmployeeRepo
	categories  *memCategoryRepo
	rules       *memRuleRepo
	ranges      *memRangeRepo
	assignments *memAssignmentRepo
	audits      *memAuditRepo
	svc         PayrollService
}

func newPayrollFixture() *payrollFixture {
	f := &payrollFixture{
		employees:   newMemEmployeeRepo(),
		categories:  newMemCategoryRepo(),
		rules:       newMemRuleRepo(),
		ranges:      newMemRangeRepo(),
		assignments: newMemAssignmentRepo(),
		audits:      newMemAuditRepo(),
	}
	f.svc = NewPayrollService(f.employees, f.categories, f.rules, f.ranges, f.assignments, f.audits, passthroughTx{}, nil)
	return f
}

func (f *payrollFixture) addEmployee(t *testing.T, name, salary string) uuid.UUID {
	t.Helper()
	e := model.Employee{FullName: name, Email: name + "@example.com"}
	if salary != "" {
		base := decimal.RequireFromString(salary)
		e.BaseSalary = &base
	}
	require.NoError(t, f.employees.Create(context.Background(), &e))
	return e.ID
}

func (f *payrollFixture) addCategory(t *testing.T, name, kind string) *model.SalaryCategory {
	t.Helper()
	c := model.SalaryCategory{Name: name, Kind: kind}
	require.NoError(t, f.categories.Create(context.Background(), &c))
	return &c
}

func (f *payrollFixture) addRule(t *testing.T, category *model.SalaryCategory, calcType, value string, rangeID, appliesTo *uuid.UUID) {
	t.Helper()
	r := model.SalaryRule{
		CategoryID:          category.ID,
		Category:            category,
		CalculationType:     calcType,
		Value:               decimal.RequireFromString(value),
		RangeID:             rangeID,
		AppliesToCategoryID: appliesTo,
	}
	require.NoError(t, f.rules.Create(context.Background(), &r))
}

func TestEvaluateEmployeePersistsAssignments(t *testing.T) {
	f := newPayrollFixture()
	empID := f.addEmployee(t, "alice", "100000")
	tax := f.addCategory(t, "Income Tax", model.CategoryKindDeduction)
	f.addRule(t, tax, model.CalculationPercentage, "8.5", nil, nil)

	result, err := f.svc.EvaluateEmployee(context.Background(), EvaluateEmployeeRequest{
		EmployeeID:  empID.String(),
		CategoryIDs: []string{tax.ID.String()},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "91500.00", result.Net)
	require.Len(t, result.Amounts, 1)
	assert.Equal(t, "8500.00", result.Amounts[0].Amount)

	stored, err := f.assignments.Find(context.Background(), empID, tax.ID)
	require.NoError(t, err)
	assert.True(t, stored.CategoryAmount.Equal(decimal.RequireFromString("8500")))
}

func TestEvaluateEmployeeMissingBaseSalary(t *testing.T) {
	f := newPayrollFixture()
	empID := f.addEmployee(t, "bob", "")
	tax := f.addCategory(t, "Income Tax", model.CategoryKindDeduction)
	f.addRule(t, tax, model.CalculationPercentage, "8.5", nil, nil)

	_, err := f.svc.EvaluateEmployee(context.Background(), EvaluateEmployeeRequest{
		EmployeeID:  empID.String(),
		CategoryIDs: []string{tax.ID.String()},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrMissingBaseSalary)
}

func TestEvaluateEmployeeReassignOverwrites(t *testing.T) {
	f := newPayrollFixture()
	empID := f.addEmployee(t, "carol", "50000")
	bonus := f.addCategory(t, "Bonus", model.CategoryKindAddition)
	f.addRule(t, bonus, model.CalculationFixed, "1000", nil, nil)

	_, err := f.svc.EvaluateEmployee(context.Background(), EvaluateEmployeeRequest{
		EmployeeID:  empID.String(),
		CategoryIDs: []string{bonus.ID.String()},
	}, "")
	require.NoError(t, err)

	// Replace the fixed amount and evaluate again: the unique
	// (employee, category) row must be overwritten, not duplicated.
	rules, err := f.rules.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	rules[0].Value = decimal.RequireFromString("2500")
	require.NoError(t, f.rules.Update(context.Background(), &rules[0]))

	_, err = f.svc.EvaluateEmployee(context.Background(), EvaluateEmployeeRequest{
		EmployeeID:  empID.String(),
		CategoryIDs: []string{bonus.ID.String()},
	}, "")
	require.NoError(t, err)

	all, err := f.assignments.ListByEmployee(context.Background(), empID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].CategoryAmount.Equal(decimal.RequireFromString("2500")))
}

func TestAssignCategoryPartialSuccess(t *testing.T) {
	f := newPayrollFixture()
	paid := f.addEmployee(t, "dave", "80000")
	unpaid := f.addEmployee(t, "erin", "")
	tax := f.addCategory(t, "Income Tax", model.CategoryKindDeduction)
	f.addRule(t, tax, model.CalculationPercentage, "10", nil, nil)

	missing := uuid.New()
	result, err := f.svc.AssignCategoryToEmployees(context.Background(), AssignCategoryRequest{
		CategoryID:  tax.ID.String(),
		EmployeeIDs: []string{paid.String(), unpaid.String(), missing.String()},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Len(t, result.Skipped, 2)
	assert.Equal(t, "8000.00", result.TotalAmount)

	_, err = f.assignments.Find(context.Background(), paid, tax.ID)
	assert.NoError(t, err)
	_, err = f.assignments.Find(context.Background(), unpaid, tax.ID)
	assert.Error(t, err)
}

func TestAssignCategoryDependencyCycleAbortsBatch(t *testing.T) {
	f := newPayrollFixture()
	empID := f.addEmployee(t, "frank", "60000")
	a := f.addCategory(t, "A", model.CategoryKindAddition)
	b := f.addCategory(t, "B", model.CategoryKindAddition)
	f.addRule(t, a, model.CalculationPercentage, "10", nil, &b.ID)
	f.addRule(t, b, model.CalculationPercentage, "10", nil, &a.ID)

	result, err := f.svc.AssignCategoryToEmployees(context.Background(), AssignCategoryRequest{
		CategoryID:  a.ID.String(),
		EmployeeIDs: []string{empID.String()},
	}, "")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, payroll.ErrDependencyCycle)
}

func TestAssignCategorySkipsEmployeeOutsideBracket(t *testing.T) {
	f := newPayrollFixture()
	low := f.addEmployee(t, "grace", "10000")
	high := f.addEmployee(t, "heidi", "90000")

	max := decimal.RequireFromString("120000")
	bracket := model.SalaryRange{
		Name:      "50k-120k",
		MinAmount: decimal.RequireFromString("50000"),
		MaxAmount: &max,
	}
	require.NoError(t, f.ranges.Create(context.Background(), &bracket))

	tax := f.addCategory(t, "Income Tax", model.CategoryKindDeduction)
	f.addRule(t, tax, model.CalculationPercentage, "12", &bracket.ID, nil)

	result, err := f.svc.AssignCategoryToEmployees(context.Background(), AssignCategoryRequest{
		CategoryID:  tax.ID.String(),
		EmployeeIDs: []string{low.String(), high.String()},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, low.String(), result.Skipped[0].EmployeeID)
	assert.Equal(t, payroll.SkipNoApplicableRule, result.Skipped[0].Reason)

	stored, err := f.assignments.Find(context.Background(), high, tax.ID)
	require.NoError(t, err)
	assert.True(t, stored.CategoryAmount.Equal(decimal.RequireFromString("10800")))
}

func TestEvaluateEmployeeWithDependencyChain(t *testing.T) {
	f := newPayrollFixture()
	empID := f.addEmployee(t, "ivan", "100000")
	allowance := f.addCategory(t, "Housing Allowance", model.CategoryKindAllowance)
	tax := f.addCategory(t, "Allowance Tax", model.CategoryKindDeduction)
	f.addRule(t, allowance, model.CalculationPercentage, "20", nil, nil)
	f.addRule(t, tax, model.CalculationPercentage, "5", nil, &allowance.ID)

	result, err := f.svc.EvaluateEmployee(context.Background(), EvaluateEmployeeRequest{
		EmployeeID:  empID.String(),
		CategoryIDs: []string{allowance.ID.String(), tax.ID.String()},
	}, "")
	require.NoError(t, err)

	// allowance = 20% of 100000 = 20000, tax = 5% of 20000 = 1000
	amounts := map[string]string{}
	for _, a := range result.Amounts {
		amounts[a.CategoryID] = a.Amount
	}
	assert.Equal(t, "20000.00", amounts[allowance.ID.String()])
	assert.Equal(t, "1000.00", amounts[tax.ID.String()])
	assert.Equal(t, "119000.00", result.Net)
}

func TestUnassignCategoryRemovesRow(t *testing.T) {
	f := newPayrollFixture()
	empID := f.addEmployee(t, "judy", "70000")
	bonus := f.addCategory(t, "Bonus", model.CategoryKindAddition)
	f.addRule(t, bonus, model.CalculationFixed, "500", nil, nil)

	_, err := f.svc.EvaluateEmployee(context.Background(), EvaluateEmployeeRequest{
		EmployeeID:  empID.String(),
		CategoryIDs: []string{bonus.ID.String()},
	}, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.UnassignCategory(context.Background(), empID.String(), bonus.ID.String(), ""))

	_, err = f.assignments.Find(context.Background(), empID, bonus.ID)
	assert.Error(t, err)
}
