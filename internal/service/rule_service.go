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

type CreateRuleRequest struct {
	CategoryID          string `json:"category_id" binding:"required"`
	RangeID             string `json:"range_id"`                                                     // empty = applies to all brackets
	CalculationType     string `json:"calculation_type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value               string `json:"value" binding:"required"` // decimal string
	AppliesToCategoryID string `json:"applies_to_category_id"`   // empty = base salary is the base
	Description         string `json:"description"`
}

type UpdateRuleRequest = CreateRuleRequest

type RuleResponse struct {
	ID                  string  `json:"id"`
	CategoryID          string  `json:"category_id"`
	CategoryName        string  `json:"category_name,omitempty"`
	RangeID             *string `json:"range_id"`
	CalculationType     string  `json:"calculation_type"`
	Value               string  `json:"value"`
	AppliesToCategoryID *string `json:"applies_to_category_id"`
	Description         string  `json:"description"`
	CreatedAt           string  `json:"created_at"`
}

// --- Interface ---

type RuleService interface {
	ListRules(ctx context.Context, page, limit int) ([]RuleResponse, int64, error)
	GetRule(ctx context.Context, id string) (*RuleResponse, error)
	CreateRule(ctx context.Context, req CreateRuleRequest, userID string) (*RuleResponse, error)
	UpdateRule(ctx context.Context, id string, req UpdateRuleRequest, userID string) (*RuleResponse, error)
	DeleteRule(ctx context.Context, id string, userID string) error
}

type ruleService struct {
	ruleRepo     repository.RuleRepository
	categoryRepo repository.CategoryRepository
	rangeRepo    repository.RangeRepository
	auditRepo    repository.AuditRepository
}

func NewRuleService(
	ruleRepo repository.RuleRepository,
	categoryRepo repository.CategoryRepository,
	rangeRepo repository.RangeRepository,
	auditRepo repository.AuditRepository,
) RuleService {
	return &ruleService{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		rangeRepo:    rangeRepo,
		auditRepo:    auditRepo,
	}
}

// --- Implementation ---

func (s *ruleService) ListRules(ctx context.Context, page, limit int) ([]RuleResponse, int64, error) {
	rules, total, err := s.ruleRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rules: %w", err)
	}

	res := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toRuleResponse(r))
	}
	return res, total, nil
}

func (s *ruleService) GetRule(ctx context.Context, id string) (*RuleResponse, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid rule id: %w", err)
	}

	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("rule not found: %w", err)
	}

	resp := toRuleResponse(*rule)
	return &resp, nil
}

func (s *ruleService) CreateRule(ctx context.Context, req CreateRuleRequest, userID string) (*RuleResponse, error) {
	rule, err := s.buildRule(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	if err := s.checkAcyclic(ctx, *rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateRule, rule.ID.String(), req.CalculationType, req)

	resp := toRuleResponse(*rule)
	return &resp, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, id string, req UpdateRuleRequest, userID string) (*RuleResponse, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid rule id: %w", err)
	}

	existing, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("rule not found: %w", err)
	}

	rule, err := s.buildRule(ctx, req, &ruleID)
	if err != nil {
		return nil, err
	}
	rule.CreatedAt = existing.CreatedAt

	if err := s.checkAcyclic(ctx, *rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateRule, id, req.CalculationType, req)

	resp := toRuleResponse(*rule)
	return &resp, nil
}

func (s *ruleService) DeleteRule(ctx context.Context, id string, userID string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid rule id: %w", err)
	}

	if _, err := s.ruleRepo.FindByID(ctx, ruleID); err != nil {
		return fmt.Errorf("rule not found: %w", err)
	}

	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteRule, id, "", map[string]string{"deleted_id": id})

	return nil
}

// --- Helpers ---

// buildRule parses and validates every reference the rule carries: the
// category, the optional bracket and the optional base category must exist.
func (s *ruleService) buildRule(ctx context.Context, req CreateRuleRequest, existingID *uuid.UUID) (*model.SalaryRule, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "category_id", Reason: "not a uuid"}
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return nil, &payroll.ValidationError{Field: "value", Reason: "not a decimal"}
	}
	if value.IsNegative() {
		return nil, &payroll.ValidationError{Field: "value", Reason: "must be >= 0"}
	}

	if !model.ValidCalculationType(req.CalculationType) {
		return nil, &payroll.ValidationError{Field: "calculation_type", Reason: "must be PERCENTAGE or FIXED"}
	}

	rule := &model.SalaryRule{
		CategoryID:      categoryID,
		CalculationType: req.CalculationType,
		Value:           value,
		Description:     req.Description,
	}
	if existingID != nil {
		rule.ID = *existingID
	}

	if req.RangeID != "" {
		rangeID, parseErr := uuid.Parse(req.RangeID)
		if parseErr != nil {
			return nil, &payroll.ValidationError{Field: "range_id", Reason: "not a uuid"}
		}
		if _, findErr := s.rangeRepo.FindByID(ctx, rangeID); findErr != nil {
			return nil, fmt.Errorf("range not found: %w", findErr)
		}
		rule.RangeID = &rangeID
	}

	if req.AppliesToCategoryID != "" {
		appliesTo, parseErr := uuid.Parse(req.AppliesToCategoryID)
		if parseErr != nil {
			return nil, &payroll.ValidationError{Field: "applies_to_category_id", Reason: "not a uuid"}
		}
		if appliesTo == categoryID {
			return nil, &payroll.DependencyCycleError{CategoryIDs: []uuid.UUID{categoryID}}
		}
		if _, findErr := s.categoryRepo.FindByID(ctx, appliesTo); findErr != nil {
			return nil, fmt.Errorf("applies-to category not found: %w", findErr)
		}
		rule.AppliesToCategoryID = &appliesTo
	}

	return rule, nil
}

// checkAcyclic rejects a write that would close a dependency cycle across the
// stored rule set, so evaluation never has to fail on master data that could
// have been refused upfront.
func (s *ruleService) checkAcyclic(ctx context.Context, candidate model.SalaryRule) error {
	if candidate.AppliesToCategoryID == nil {
		return nil
	}

	rules, err := s.ruleRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rules for cycle check: %w", err)
	}

	merged := make([]model.SalaryRule, 0, len(rules)+1)
	for _, r := range rules {
		if r.ID == candidate.ID {
			continue
		}
		merged = append(merged, r)
	}
	merged = append(merged, candidate)

	_, err = payroll.Order(merged)
	return err
}

func toRuleResponse(r model.SalaryRule) RuleResponse {
	resp := RuleResponse{
		ID:              r.ID.String(),
		CategoryID:      r.CategoryID.String(),
		CalculationType: r.CalculationType,
		Value:           r.Value.StringFixed(4),
		Description:     r.Description,
		CreatedAt:       r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.Category != nil {
		resp.CategoryName = r.Category.Name
	}
	if r.RangeID != nil {
		s := r.RangeID.String()
		resp.RangeID = &s
	}
	if r.AppliesToCategoryID != nil {
		s := r.AppliesToCategoryID.String()
		resp.AppliesToCategoryID = &s
	}
	return resp
}
