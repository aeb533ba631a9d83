package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/payroll"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overtimeFixture struct {
	employees   *memEmployeeRepo
	categories  *memCategoryRepo
	overtime    *memOvertimeRepo
	assignments *memAssignmentRepo
	audits      *memAuditRepo
	categoryID  uuid.UUID
	svc         OvertimeService
}

func newOvertimeFixture(t *testing.T) *overtimeFixture {
	t.Helper()
	f := &overtimeFixture{
		employees:   newMemEmployeeRepo(),
		categories:  newMemCategoryRepo(),
		overtime:    newMemOvertimeRepo(),
		assignments: newMemAssignmentRepo(),
		audits:      newMemAuditRepo(),
	}

	cat := model.SalaryCategory{Name: "Overtime", Kind: model.CategoryKindAddition}
	require.NoError(t, f.categories.Create(context.Background(), &cat))
	f.categoryID = cat.ID

	f.svc = NewOvertimeService(f.employees, f.categories, f.overtime, f.assignments, f.audits, passthroughTx{}, f.categoryID)
	return f
}

func (f *overtimeFixture) addEmployee(t *testing.T, name, salary string) uuid.UUID {
	t.Helper()
	e := model.Employee{FullName: name, Email: name + "@example.com"}
	if salary != "" {
		base := decimal.RequireFromString(salary)
		e.BaseSalary = &base
	}
	require.NoError(t, f.employees.Create(context.Background(), &e))
	return e.ID
}

func (f *overtimeFixture) addRequest(t *testing.T, employeeID uuid.UUID, hours string) uuid.UUID {
	t.Helper()
	r := model.OvertimeRequest{
		EmployeeID: employeeID,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Hours:      decimal.RequireFromString(hours),
		Status:     model.OvertimeStatusPending,
	}
	require.NoError(t, f.overtime.CreateRequest(context.Background(), &r))
	return r.ID
}

func TestApproveMonthComputesAmount(t *testing.T) {
	f := newOvertimeFixture(t)
	empID := f.addEmployee(t, "alice", "72000")
	reqID := f.addRequest(t, empID, "10")

	result, err := f.svc.ApproveMonth(context.Background(), ApproveOvertimeRequest{
		Month:      "2025-03",
		RequestIDs: []string{reqID.String()},
	}, "")
	require.NoError(t, err)

	// (72000 / 240) * 10 * 1.5 = 4500
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, "4500.00", result.TotalAmount)
	assert.Empty(t, result.Skipped)

	request, err := f.overtime.FindRequest(context.Background(), reqID)
	require.NoError(t, err)
	assert.Equal(t, model.OvertimeStatusApproved, request.Status)

	assignment, err := f.assignments.Find(context.Background(), empID, f.categoryID)
	require.NoError(t, err)
	assert.True(t, assignment.CategoryAmount.Equal(decimal.RequireFromString("4500")))
}

func TestApproveMonthIsIdempotentPerRequest(t *testing.T) {
	f := newOvertimeFixture(t)
	empID := f.addEmployee(t, "bob", "72000")
	reqID := f.addRequest(t, empID, "10")

	for i := 0; i < 3; i++ {
		_, err := f.svc.ApproveMonth(context.Background(), ApproveOvertimeRequest{
			Month:      "2025-03",
			RequestIDs: []string{reqID.String()},
		}, "")
		require.NoError(t, err)
	}

	approvals, err := f.overtime.ListApprovalsByMonth(context.Background(), "2025-03")
	require.NoError(t, err)
	assert.Len(t, approvals, 1)

	assignment, err := f.assignments.Find(context.Background(), empID, f.categoryID)
	require.NoError(t, err)
	assert.True(t, assignment.CategoryAmount.Equal(decimal.RequireFromString("4500")))
}

func TestApproveMonthSumsMultipleRequests(t *testing.T) {
	f := newOvertimeFixture(t)
	empID := f.addEmployee(t, "carol", "72000")
	first := f.addRequest(t, empID, "10")
	second := f.addRequest(t, empID, "4")

	result, err := f.svc.ApproveMonth(context.Background(), ApproveOvertimeRequest{
		Month:      "2025-03",
		RequestIDs: []string{first.String(), second.String()},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	// 4500 + 1800: the assignment carries the month sum over all approvals,
	// not the amount of the last processed request.
	assignment, err := f.assignments.Find(context.Background(), empID, f.categoryID)
	require.NoError(t, err)
	assert.True(t, assignment.CategoryAmount.Equal(decimal.RequireFromString("6300")))
}

func TestApproveMonthSkipsMissingBaseSalary(t *testing.T) {
	f := newOvertimeFixture(t)
	unpaid := f.addEmployee(t, "dave", "")
	reqID := f.addRequest(t, unpaid, "5")

	result, err := f.svc.ApproveMonth(context.Background(), ApproveOvertimeRequest{
		Month:      "2025-03",
		RequestIDs: []string{reqID.String()},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, reqID.String(), result.Skipped[0].RequestID)
}

func TestApproveMonthRejectsInvalidMonth(t *testing.T) {
	f := newOvertimeFixture(t)

	_, err := f.svc.ApproveMonth(context.Background(), ApproveOvertimeRequest{
		Month:      "March 2025",
		RequestIDs: []string{uuid.New().String()},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)
}

func TestApproveMonthRequiresConfiguredCategory(t *testing.T) {
	f := newOvertimeFixture(t)
	empID := f.addEmployee(t, "erin", "72000")
	reqID := f.addRequest(t, empID, "2")

	unconfigured := NewOvertimeService(f.employees, f.categories, f.overtime, f.assignments, f.audits, passthroughTx{}, uuid.Nil)
	_, err := unconfigured.ApproveMonth(context.Background(), ApproveOvertimeRequest{
		Month:      "2025-03",
		RequestIDs: []string{reqID.String()},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrConfiguration)

	dangling := NewOvertimeService(f.employees, f.categories, f.overtime, f.assignments, f.audits, passthroughTx{}, uuid.New())
	_, err = dangling.ApproveMonth(context.Background(), ApproveOvertimeRequest{
		Month:      "2025-03",
		RequestIDs: []string{reqID.String()},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrConfiguration)
}

func TestCreateRequestValidatesHours(t *testing.T) {
	f := newOvertimeFixture(t)
	empID := f.addEmployee(t, "frank", "50000")

	_, err := f.svc.CreateRequest(context.Background(), CreateOvertimeRequestDTO{
		EmployeeID: empID.String(),
		Date:       "2025-03-10",
		Hours:      "-2",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrValidation)
}
