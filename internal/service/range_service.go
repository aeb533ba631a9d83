package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/payroll"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateRangeRequest struct {
	Name        string `json:"name" binding:"required"`
	MinAmount   string `json:"min_amount" binding:"required"` // decimal string
	MaxAmount   string `json:"max_amount"`                    // decimal string, empty = unbounded
	Percentage  string `json:"percentage" binding:"required"`
	Description string `json:"description"`
}

type UpdateRangeRequest = CreateRangeRequest

type RangeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MinAmount   string  `json:"min_amount"`
	MaxAmount   *string `json:"max_amount"`
	Percentage  string  `json:"percentage"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// --- Interface ---

type RangeService interface {
	ListRanges(ctx context.Context) ([]RangeResponse, error)
	CreateRange(ctx context.Context, req CreateRangeRequest, userID string) (*RangeResponse, error)
	UpdateRange(ctx context.Context, id string, req UpdateRangeRequest, userID string) (*RangeResponse, error)
	DeleteRange(ctx context.Context, id string, userID string) error
	FindBracket(ctx context.Context, amount decimal.Decimal) (*RangeResponse, error)
}

type rangeService struct {
	rangeRepo repository.RangeRepository
	ruleRepo  repository.RuleRepository
	auditRepo repository.AuditRepository
}

func NewRangeService(
	rangeRepo repository.RangeRepository,
	ruleRepo repository.RuleRepository,
	auditRepo repository.AuditRepository,
) RangeService {
	return &rangeService{
		rangeRepo: rangeRepo,
		ruleRepo:  ruleRepo,
		auditRepo: auditRepo,
	}
}

// --- Implementation ---

func (s *rangeService) ListRanges(ctx context.Context) ([]RangeResponse, error) {
	brackets, err := s.rangeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ranges: %w", err)
	}

	res := make([]RangeResponse, 0, len(brackets))
	for _, b := range brackets {
		res = append(res, toRangeResponse(b))
	}
	return res, nil
}

func (s *rangeService) CreateRange(ctx context.Context, req CreateRangeRequest, userID string) (*RangeResponse, error) {
	min, max, percentage, err := parseRangeFields(req.MinAmount, req.MaxAmount, req.Percentage)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, min, max, nil); err != nil {
		return nil, err
	}

	bracket := model.SalaryRange{
		Name:        req.Name,
		MinAmount:   min,
		MaxAmount:   max,
		Percentage:  percentage,
		Description: req.Description,
	}

	if err := s.rangeRepo.Create(ctx, &bracket); err != nil {
		return nil, fmt.Errorf("failed to create range: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateRange, bracket.ID.String(), bracket.Name, req)

	resp := toRangeResponse(bracket)
	return &resp, nil
}

func (s *rangeService) UpdateRange(ctx context.Context, id string, req UpdateRangeRequest, userID string) (*RangeResponse, error) {
	rangeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid range id: %w", err)
	}

	bracket, err := s.rangeRepo.FindByID(ctx, rangeID)
	if err != nil {
		return nil, fmt.Errorf("range not found: %w", err)
	}

	min, max, percentage, err := parseRangeFields(req.MinAmount, req.MaxAmount, req.Percentage)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, min, max, &rangeID); err != nil {
		return nil, err
	}

	bracket.Name = req.Name
	bracket.MinAmount = min
	bracket.MaxAmount = max
	bracket.Percentage = percentage
	bracket.Description = req.Description

	if err := s.rangeRepo.Update(ctx, bracket); err != nil {
		return nil, fmt.Errorf("failed to update range: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateRange, id, bracket.Name, req)

	resp := toRangeResponse(*bracket)
	return &resp, nil
}

func (s *rangeService) DeleteRange(ctx context.Context, id string, userID string) error {
	rangeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid range id: %w", err)
	}

	bracket, err := s.rangeRepo.FindByID(ctx, rangeID)
	if err != nil {
		return fmt.Errorf("range not found: %w", err)
	}

	refs, err := s.ruleRepo.CountReferencingRange(ctx, rangeID)
	if err != nil {
		return fmt.Errorf("failed to check rule references: %w", err)
	}
	if refs > 0 {
		return &payroll.ReferentialIntegrityError{Entity: "range", ID: rangeID, RuleCount: refs}
	}

	if err := s.rangeRepo.Delete(ctx, rangeID); err != nil {
		return fmt.Errorf("failed to delete range: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteRange, id, bracket.Name, map[string]string{"deleted_id": id})

	return nil
}

func (s *rangeService) FindBracket(ctx context.Context, amount decimal.Decimal) (*RangeResponse, error) {
	bracket, err := s.rangeRepo.FindBracket(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket: %w", err)
	}
	if bracket == nil {
		return nil, nil // no bracket covers the amount — not an error
	}

	resp := toRangeResponse(*bracket)
	return &resp, nil
}

// --- Helpers ---

func parseRangeFields(minStr, maxStr, pctStr string) (decimal.Decimal, *decimal.Decimal, decimal.Decimal, error) {
	min, err := decimal.NewFromString(minStr)
	if err != nil {
		return decimal.Zero, nil, decimal.Zero, &payroll.ValidationError{Field: "min_amount", Reason: "not a decimal"}
	}
	if min.IsNegative() {
		return decimal.Zero, nil, decimal.Zero, &payroll.ValidationError{Field: "min_amount", Reason: "must be >= 0"}
	}

	var max *decimal.Decimal
	if maxStr != "" {
		parsed, parseErr := decimal.NewFromString(maxStr)
		if parseErr != nil {
			return decimal.Zero, nil, decimal.Zero, &payroll.ValidationError{Field: "max_amount", Reason: "not a decimal"}
		}
		if parsed.LessThan(min) {
			return decimal.Zero, nil, decimal.Zero, &payroll.ValidationError{Field: "max_amount", Reason: "must be >= min_amount"}
		}
		max = &parsed
	}

	percentage, err := decimal.NewFromString(pctStr)
	if err != nil {
		return decimal.Zero, nil, decimal.Zero, &payroll.ValidationError{Field: "percentage", Reason: "not a decimal"}
	}
	if percentage.IsNegative() {
		return decimal.Zero, nil, decimal.Zero, &payroll.ValidationError{Field: "percentage", Reason: "must be >= 0"}
	}

	return min, max, percentage, nil
}

func (s *rangeService) checkOverlap(ctx context.Context, min decimal.Decimal, max *decimal.Decimal, excludeID *uuid.UUID) error {
	count, err := s.rangeRepo.FindOverlapping(ctx, min, max, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}
	if count > 0 {
		return &payroll.ValidationError{Field: "min_amount", Reason: "interval overlaps an existing range"}
	}
	return nil
}

func toRangeResponse(b model.SalaryRange) RangeResponse {
	resp := RangeResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		MinAmount:   b.MinAmount.StringFixed(2),
		Percentage:  b.Percentage.StringFixed(4),
		Description: b.Description,
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if b.MaxAmount != nil {
		s := b.MaxAmount.StringFixed(2)
		resp.MaxAmount = &s
	}
	return resp
}
