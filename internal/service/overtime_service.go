package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/payroll"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateOvertimeRequestDTO struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Hours      string `json:"hours" binding:"required"`
	Reason     string `json:"reason"`
}

type ApproveOvertimeRequest struct {
	Month      string   `json:"month" binding:"required"` // YYYY-MM
	RequestIDs []string `json:"request_ids" binding:"required,min=1"`
}

type OvertimeRequestResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Date         string `json:"date"`
	Hours        string `json:"hours"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type SkippedOvertimeRequest struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// OvertimeBatchResult reports a month's approval run. TotalAmount aggregates
// the amounts computed in this run, for display only — the persisted
// assignment per employee is the month sum over all approval rows.
type OvertimeBatchResult struct {
	Month       string                   `json:"month"`
	Processed   int                      `json:"processed"`
	TotalAmount string                   `json:"total_amount"`
	Skipped     []SkippedOvertimeRequest `json:"skipped"`
}

// --- Interface ---

type OvertimeService interface {
	CreateRequest(ctx context.Context, req CreateOvertimeRequestDTO) (*OvertimeRequestResponse, error)
	ListRequests(ctx context.Context, status string, page, limit int) ([]OvertimeRequestResponse, int64, error)
	ApproveMonth(ctx context.Context, req ApproveOvertimeRequest, approverID string) (*OvertimeBatchResult, error)
}

type overtimeService struct {
	employeeRepo   repository.EmployeeRepository
	categoryRepo   repository.CategoryRepository
	overtimeRepo   repository.OvertimeRepository
	assignmentRepo repository.AssignmentRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager

	// Well-known overtime category, injected from configuration and resolved
	// once — never looked up by name per call.
	overtimeCategoryID uuid.UUID
}

func NewOvertimeService(
	employeeRepo repository.EmployeeRepository,
	categoryRepo repository.CategoryRepository,
	overtimeRepo repository.OvertimeRepository,
	assignmentRepo repository.AssignmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	overtimeCategoryID uuid.UUID,
) OvertimeService {
	return &overtimeService{
		employeeRepo:       employeeRepo,
		categoryRepo:       categoryRepo,
		overtimeRepo:       overtimeRepo,
		assignmentRepo:     assignmentRepo,
		auditRepo:          auditRepo,
		txManager:          txManager,
		overtimeCategoryID: overtimeCategoryID,
	}
}

// --- Implementation ---

func (s *overtimeService) CreateRequest(ctx context.Context, req CreateOvertimeRequestDTO) (*OvertimeRequestResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "employee_id", Reason: "not a uuid"}
	}
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("employee not found: %w", err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	hours, err := decimal.NewFromString(req.Hours)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "hours", Reason: "not a decimal"}
	}
	if !hours.IsPositive() {
		return nil, &payroll.ValidationError{Field: "hours", Reason: "must be > 0"}
	}

	request := model.OvertimeRequest{
		EmployeeID: employeeID,
		Date:       date,
		Hours:      hours,
		Reason:     req.Reason,
		Status:     model.OvertimeStatusPending,
	}

	if err := s.overtimeRepo.CreateRequest(ctx, &request); err != nil {
		return nil, fmt.Errorf("failed to create overtime request: %w", err)
	}

	resp := toOvertimeResponse(request)
	return &resp, nil
}

func (s *overtimeService) ListRequests(ctx context.Context, status string, page, limit int) ([]OvertimeRequestResponse, int64, error) {
	requests, total, err := s.overtimeRepo.ListRequests(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch overtime requests: %w", err)
	}

	res := make([]OvertimeRequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toOvertimeResponse(r))
	}
	return res, total, nil
}

// ApproveMonth approves a batch of overtime requests for one payroll month.
//
// Per request, inside one transaction: mark the request approved, upsert the
// approval row keyed (request, month), then recompute the employee's month
// sum over all approval rows and upsert the assignment with that sum. Storing
// the sum (rather than the last request processed) is a deliberate policy:
// it keeps the assignment reproducible from the approval rows regardless of
// processing order, and reprocessing a request updates its row and lands on
// the same total.
func (s *overtimeService) ApproveMonth(ctx context.Context, req ApproveOvertimeRequest, approverID string) (*OvertimeBatchResult, error) {
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return nil, &payroll.ValidationError{Field: "month", Reason: "expected YYYY-MM"}
	}

	if err := s.ensureOvertimeCategory(ctx); err != nil {
		return nil, err
	}

	var approvedBy *uuid.UUID
	if parsed, err := uuid.Parse(approverID); err == nil {
		approvedBy = &parsed
	}

	batch := &OvertimeBatchResult{Month: req.Month, Skipped: []SkippedOvertimeRequest{}}
	total := decimal.Zero

	for _, raw := range req.RequestIDs {
		requestID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			batch.Skipped = append(batch.Skipped, SkippedOvertimeRequest{RequestID: raw, Reason: "invalid request id"})
			continue
		}

		amount, err := s.approveOne(ctx, requestID, req.Month, approvedBy)
		if err != nil {
			batch.Skipped = append(batch.Skipped, SkippedOvertimeRequest{RequestID: raw, Reason: err.Error()})
			continue
		}

		batch.Processed++
		total = total.Add(amount)
	}

	batch.TotalAmount = total.StringFixed(2)

	writeAudit(ctx, s.auditRepo, approverID, model.ActionApproveOvertime, req.Month, "", map[string]interface{}{
		"processed": batch.Processed,
		"skipped":   len(batch.Skipped),
		"total":     batch.TotalAmount,
	})

	return batch, nil
}

// --- Internals ---

func (s *overtimeService) approveOne(ctx context.Context, requestID uuid.UUID, month string, approvedBy *uuid.UUID) (decimal.Decimal, error) {
	request, err := s.overtimeRepo.FindRequest(ctx, requestID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("overtime request not found: %w", err)
	}
	if request.Status == model.OvertimeStatusRejected {
		return decimal.Zero, fmt.Errorf("overtime request is already rejected")
	}

	employee, err := s.employeeRepo.FindByID(ctx, request.EmployeeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("employee not found: %w", err)
	}
	if employee.BaseSalary == nil {
		return decimal.Zero, &payroll.MissingBaseSalaryError{EmployeeID: request.EmployeeID}
	}

	amount := payroll.OvertimeAmount(*employee.BaseSalary, request.Hours)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request.Status = model.OvertimeStatusApproved
		if updateErr := s.overtimeRepo.UpdateRequest(txCtx, request); updateErr != nil {
			return fmt.Errorf("failed to update request status: %w", updateErr)
		}

		approval := model.OvertimeApproval{
			OvertimeRequestID: requestID,
			EmployeeID:        request.EmployeeID,
			CalculatedAmount:  amount,
			Month:             month,
			ApprovedBy:        approvedBy,
			ApprovedAt:        time.Now(),
		}
		if upsertErr := s.overtimeRepo.UpsertApproval(txCtx, &approval); upsertErr != nil {
			return fmt.Errorf("failed to upsert approval: %w", upsertErr)
		}

		monthTotal, sumErr := s.overtimeRepo.SumApprovedForMonth(txCtx, request.EmployeeID, month)
		if sumErr != nil {
			return fmt.Errorf("failed to sum month approvals: %w", sumErr)
		}

		assignment := model.CategoryAssignment{
			EmployeeID:     request.EmployeeID,
			CategoryID:     s.overtimeCategoryID,
			CategoryAmount: monthTotal,
			AssignedBy:     approvedBy,
		}
		if upsertErr := s.assignmentRepo.Upsert(txCtx, &assignment); upsertErr != nil {
			return fmt.Errorf("failed to upsert assignment: %w", upsertErr)
		}

		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ensureOvertimeCategory verifies the configured well-known category exists.
// A zero or unknown id is a configuration error, never a silent no-op.
func (s *overtimeService) ensureOvertimeCategory(ctx context.Context) error {
	if s.overtimeCategoryID == uuid.Nil {
		return &payroll.ConfigurationError{Key: "OVERTIME_CATEGORY_ID", Reason: "not set"}
	}
	if _, err := s.categoryRepo.FindByID(ctx, s.overtimeCategoryID); err != nil {
		return &payroll.ConfigurationError{
			Key:    "OVERTIME_CATEGORY_ID",
			Reason: fmt.Sprintf("category %s does not exist", s.overtimeCategoryID),
		}
	}
	return nil
}

func toOvertimeResponse(r model.OvertimeRequest) OvertimeRequestResponse {
	resp := OvertimeRequestResponse{
		ID:         r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Date:       r.Date.Format("2006-01-02"),
		Hours:      r.Hours.StringFixed(2),
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	return resp
}
