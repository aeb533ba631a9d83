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

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Position   string `json:"position"`
	BaseSalary string `json:"base_salary"` // decimal string, empty = not set
	HiredAt    string `json:"hired_at"`    // YYYY-MM-DD
}

type UpdateEmployeeRequest = CreateEmployeeRequest

type EmployeeResponse struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	BaseSalary *string `json:"base_salary"`
	HiredAt    *string `json:"hired_at"`
	CreatedAt  string  `json:"created_at"`
}

// --- Interface ---

type EmployeeService interface {
	ListEmployees(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type employeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

// --- Implementation ---

func (s *employeeService) ListEmployees(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch employees: %w", err)
	}

	res := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		res = append(res, toEmployeeResponse(e))
	}
	return res, total, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}

	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee not found: %w", err)
	}

	resp := toEmployeeResponse(*employee)
	return &resp, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := buildEmployee(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	resp := toEmployeeResponse(*employee)
	return &resp, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}

	existing, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee not found: %w", err)
	}

	updated, err := buildEmployee(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	resp := toEmployeeResponse(*updated)
	return &resp, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid employee id: %w", err)
	}

	if err := s.repo.Delete(ctx, employeeID); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// --- Helpers ---

func buildEmployee(req CreateEmployeeRequest) (*model.Employee, error) {
	employee := &model.Employee{
		FullName: req.FullName,
		Email:    req.Email,
		Position: req.Position,
	}

	if req.BaseSalary != "" {
		salary, err := decimal.NewFromString(req.BaseSalary)
		if err != nil {
			return nil, &payroll.ValidationError{Field: "base_salary", Reason: "not a decimal"}
		}
		if salary.IsNegative() {
			return nil, &payroll.ValidationError{Field: "base_salary", Reason: "must be >= 0"}
		}
		employee.BaseSalary = &salary
	}

	if req.HiredAt != "" {
		hired, err := time.Parse("2006-01-02", req.HiredAt)
		if err != nil {
			return nil, &payroll.ValidationError{Field: "hired_at", Reason: "expected YYYY-MM-DD"}
		}
		employee.HiredAt = &hired
	}

	return employee, nil
}

func toEmployeeResponse(e model.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		FullName:  e.FullName,
		Email:     e.Email,
		Position:  e.Position,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if e.BaseSalary != nil {
		s := e.BaseSalary.StringFixed(2)
		resp.BaseSalary = &s
	}
	if e.HiredAt != nil {
		s := e.HiredAt.Format("2006-01-02")
		resp.HiredAt = &s
	}
	return resp
}
