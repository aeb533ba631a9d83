package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/payroll"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type EvaluateEmployeeRequest struct {
	EmployeeID  string   `json:"employee_id" binding:"required"`
	CategoryIDs []string `json:"category_ids" binding:"required,min=1"`
}

type AssignCategoryRequest struct {
	CategoryID  string   `json:"category_id" binding:"required"`
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1"`
}

type CategoryAmount struct {
	CategoryID string `json:"category_id"`
	Amount     string `json:"amount"`
}

type EvaluationResponse struct {
	EmployeeID string           `json:"employee_id"`
	Amounts    []CategoryAmount `json:"amounts"`
	Net        string           `json:"net"`
	Skipped    []payroll.Skip   `json:"skipped,omitempty"`
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// BatchResult is a partial-success report: one employee failing never aborts
// the remaining ones.
type BatchResult struct {
	Processed   int               `json:"processed"`
	TotalAmount string            `json:"total_amount"`
	Skipped     []SkippedEmployee `json:"skipped"`
}

type AssignmentResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Amount       string `json:"amount"`
	UpdatedAt    string `json:"updated_at"`
}

// PayrollEvent is the websocket payload pushed to dashboards after a run.
type PayrollEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type PayrollService interface {
	EvaluateEmployee(ctx context.Context, req EvaluateEmployeeRequest, userID string) (*EvaluationResponse, error)
	AssignCategoryToEmployees(ctx context.Context, req AssignCategoryRequest, userID string) (*BatchResult, error)
	UnassignCategory(ctx context.Context, employeeID, categoryID string, userID string) error
	GetEmployeeAssignments(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	Summary(ctx context.Context) ([]repository.KindSummary, error)
}

type payrollService struct {
	employeeRepo   repository.EmployeeRepository
	categoryRepo   repository.CategoryRepository
	ruleRepo       repository.RuleRepository
	rangeRepo      repository.RangeRepository
	assignmentRepo repository.AssignmentRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	hub            interface{ GetBroadcast() chan []byte } // optional websocket hub
}

func NewPayrollService(
	employeeRepo repository.EmployeeRepository,
	categoryRepo repository.CategoryRepository,
	ruleRepo repository.RuleRepository,
	rangeRepo repository.RangeRepository,
	assignmentRepo repository.AssignmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub interface{ GetBroadcast() chan []byte },
) PayrollService {
	return &payrollService{
		employeeRepo:   employeeRepo,
		categoryRepo:   categoryRepo,
		ruleRepo:       ruleRepo,
		rangeRepo:      rangeRepo,
		assignmentRepo: assignmentRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Implementation ---

// EvaluateEmployee runs the engine for one employee and persists the amounts
// of the target categories in a single transaction. The evaluation itself is
// pure; the assignment rows are a materialized cache of its output.
func (s *payrollService) EvaluateEmployee(ctx context.Context, req EvaluateEmployeeRequest, userID string) (*EvaluationResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "employee_id", Reason: "not a uuid"}
	}

	targets := make([]uuid.UUID, 0, len(req.CategoryIDs))
	for _, raw := range req.CategoryIDs {
		catID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, &payroll.ValidationError{Field: "category_ids", Reason: fmt.Sprintf("'%s' is not a uuid", raw)}
		}
		targets = append(targets, catID)
	}

	result, assignments, err := s.evaluate(ctx, employeeID, targets, userID)
	if err != nil {
		return nil, err
	}

	if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.assignmentRepo.UpsertBatch(txCtx, assignments)
	}); err != nil {
		return nil, fmt.Errorf("failed to persist assignments: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionEvaluatePayroll, req.EmployeeID, "", map[string]interface{}{
		"categories": len(assignments),
		"net":        result.Net.StringFixed(2),
	})
	s.broadcast("payroll.evaluated", map[string]interface{}{
		"employee_id": req.EmployeeID,
		"net":         result.Net.StringFixed(2),
	})

	return toEvaluationResponse(employeeID, targets, result), nil
}

// AssignCategoryToEmployees evaluates one category for many employees.
// Per-employee failures (missing base salary, unknown employee) are collected
// into the result; only master-data errors that poison the whole batch, such
// as a dependency cycle, abort it.
func (s *payrollService) AssignCategoryToEmployees(ctx context.Context, req AssignCategoryRequest, userID string) (*BatchResult, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "category_id", Reason: "not a uuid"}
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	batch := &BatchResult{Skipped: []SkippedEmployee{}}
	total := decimal.Zero

	for _, raw := range req.EmployeeIDs {
		employeeID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			batch.Skipped = append(batch.Skipped, SkippedEmployee{EmployeeID: raw, Reason: "invalid employee id"})
			continue
		}

		result, assignments, evalErr := s.evaluate(ctx, employeeID, []uuid.UUID{categoryID}, userID)
		if evalErr != nil {
			if errors.Is(evalErr, payroll.ErrDependencyCycle) {
				return nil, evalErr // broken master data, not an employee problem
			}
			batch.Skipped = append(batch.Skipped, SkippedEmployee{EmployeeID: raw, Reason: evalErr.Error()})
			continue
		}

		amount, computed := result.Amounts[categoryID]
		if !computed {
			reason := payroll.SkipNoApplicableRule
			for _, sk := range result.Skipped {
				if sk.CategoryID == categoryID {
					reason = sk.Reason
				}
			}
			batch.Skipped = append(batch.Skipped, SkippedEmployee{EmployeeID: raw, Reason: reason})
			continue
		}

		if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.assignmentRepo.UpsertBatch(txCtx, assignments)
		}); err != nil {
			batch.Skipped = append(batch.Skipped, SkippedEmployee{EmployeeID: raw, Reason: err.Error()})
			continue
		}

		batch.Processed++
		total = total.Add(amount)
	}

	batch.TotalAmount = total.StringFixed(2)

	writeAudit(ctx, s.auditRepo, userID, model.ActionAssignCategory, req.CategoryID, "", map[string]interface{}{
		"processed": batch.Processed,
		"skipped":   len(batch.Skipped),
	})
	s.broadcast("payroll.batch_assigned", map[string]interface{}{
		"category_id": req.CategoryID,
		"processed":   batch.Processed,
	})

	return batch, nil
}

func (s *payrollService) UnassignCategory(ctx context.Context, employeeID, categoryID string, userID string) error {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return &payroll.ValidationError{Field: "employee_id", Reason: "not a uuid"}
	}
	catID, err := uuid.Parse(categoryID)
	if err != nil {
		return &payroll.ValidationError{Field: "category_id", Reason: "not a uuid"}
	}

	if err := s.assignmentRepo.Remove(ctx, empID, catID); err != nil {
		return fmt.Errorf("failed to remove assignment: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUnassignCategory, categoryID, "", map[string]string{
		"employee_id": employeeID,
	})

	return nil
}

func (s *payrollService) GetEmployeeAssignments(ctx context.Context, employeeID string) ([]AssignmentResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "employee_id", Reason: "not a uuid"}
	}

	assignments, err := s.assignmentRepo.ListByEmployee(ctx, empID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	res := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		item := AssignmentResponse{
			CategoryID: a.CategoryID.String(),
			Amount:     a.CategoryAmount.StringFixed(2),
			UpdatedAt:  a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if a.Category != nil {
			item.CategoryName = a.Category.Name
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *payrollService) Summary(ctx context.Context) ([]repository.KindSummary, error) {
	summary, err := s.assignmentRepo.SummaryByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate assignments: %w", err)
	}
	return summary, nil
}

// --- Internals ---

// evaluate loads the employee and master data, expands the target categories
// to their dependency closure and runs the pure engine. Returned assignments
// cover only the requested targets that produced an amount.
func (s *payrollService) evaluate(ctx context.Context, employeeID uuid.UUID, targets []uuid.UUID, userID string) (*payroll.Result, []model.CategoryAssignment, error) {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("employee not found: %w", err)
	}
	if employee.BaseSalary == nil {
		return nil, nil, &payroll.MissingBaseSalaryError{EmployeeID: employeeID}
	}

	allRules, err := s.ruleRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch rules: %w", err)
	}

	ranges, err := s.rangeRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch ranges: %w", err)
	}

	rules := closure(allRules, targets)

	kinds := make(map[uuid.UUID]string)
	for _, r := range rules {
		if r.Category != nil {
			kinds[r.CategoryID] = r.Category.Kind
		}
	}

	result, err := payroll.Evaluate(payroll.Input{
		BaseSalary: *employee.BaseSalary,
		Rules:      rules,
		Ranges:     ranges,
		Kinds:      kinds,
	})
	if err != nil {
		return nil, nil, err
	}

	var assignedBy *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		assignedBy = &parsed
	}

	assignments := make([]model.CategoryAssignment, 0, len(targets))
	for _, catID := range targets {
		amount, computed := result.Amounts[catID]
		if !computed {
			continue
		}
		assignments = append(assignments, model.CategoryAssignment{
			EmployeeID:     employeeID,
			CategoryID:     catID,
			CategoryAmount: amount,
			AssignedBy:     assignedBy,
		})
	}

	return result, assignments, nil
}

// closure selects the rules of the target categories plus, transitively, the
// rules of every category they compute from.
func closure(rules []model.SalaryRule, targets []uuid.UUID) []model.SalaryRule {
	byCat := make(map[uuid.UUID][]model.SalaryRule)
	for _, r := range rules {
		byCat[r.CategoryID] = append(byCat[r.CategoryID], r)
	}

	wanted := make(map[uuid.UUID]bool)
	stack := append([]uuid.UUID(nil), targets...)
	for len(stack) > 0 {
		catID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if wanted[catID] {
			continue
		}
		wanted[catID] = true
		for _, r := range byCat[catID] {
			if r.AppliesToCategoryID != nil {
				stack = append(stack, *r.AppliesToCategoryID)
			}
		}
	}

	var selected []model.SalaryRule
	for _, r := range rules {
		if wanted[r.CategoryID] {
			selected = append(selected, r)
		}
	}
	return selected
}

func (s *payrollService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(PayrollEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case s.hub.GetBroadcast() <- payload:
	default: // no listeners, drop
	}
}

func toEvaluationResponse(employeeID uuid.UUID, targets []uuid.UUID, result *payroll.Result) *EvaluationResponse {
	resp := &EvaluationResponse{
		EmployeeID: employeeID.String(),
		Net:        result.Net.StringFixed(2),
		Skipped:    result.Skipped,
	}
	for _, catID := range targets {
		if amount, ok := result.Amounts[catID]; ok {
			resp.Amounts = append(resp.Amounts, CategoryAmount{
				CategoryID: catID.String(),
				Amount:     amount.StringFixed(2),
			})
		}
	}
	return resp
}
