package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/payroll"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	Name              string `json:"name" binding:"required"`
	Kind              string `json:"kind" binding:"required,oneof=DEDUCTION ADDITION ALLOWANCE"`
	IsPercentageBased bool   `json:"is_percentage_based"`
	Description       string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name              string `json:"name" binding:"required"`
	Kind              string `json:"kind" binding:"required,oneof=DEDUCTION ADDITION ALLOWANCE"`
	IsPercentageBased bool   `json:"is_percentage_based"`
	Description       string `json:"description"`
}

type CategoryResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	IsPercentageBased bool   `json:"is_percentage_based"`
	Description       string `json:"description"`
	CreatedAt         string `json:"created_at"`
}

// --- Interface ---

type CategoryService interface {
	ListCategories(ctx context.Context, page, limit int) ([]CategoryResponse, int64, error)
	GetCategory(ctx context.Context, id string) (*CategoryResponse, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest, userID string) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest, userID string) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string, userID string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	ruleRepo     repository.RuleRepository
	auditRepo    repository.AuditRepository
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	ruleRepo repository.RuleRepository,
	auditRepo repository.AuditRepository,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
		auditRepo:    auditRepo,
	}
}

// --- Implementation ---

func (s *categoryService) ListCategories(ctx context.Context, page, limit int) ([]CategoryResponse, int64, error) {
	categories, total, err := s.categoryRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch categories: %w", err)
	}

	res := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, toCategoryResponse(c))
	}
	return res, total, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id string) (*CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	resp := toCategoryResponse(*category)
	return &resp, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest, userID string) (*CategoryResponse, error) {
	if !model.ValidCategoryKind(req.Kind) {
		return nil, &payroll.ValidationError{Field: "kind", Reason: "must be DEDUCTION, ADDITION or ALLOWANCE"}
	}

	category := model.SalaryCategory{
		Name:              req.Name,
		Kind:              req.Kind,
		IsPercentageBased: req.IsPercentageBased,
		Description:       req.Description,
	}

	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.audit(ctx, userID, model.ActionCreateCategory, category.ID.String(), category.Name, req)

	resp := toCategoryResponse(category)
	return &resp, nil
}

// UpdateCategory blocks changes to kind and the percentage flag once any rule
// references the category: rules were written against those semantics.
func (s *categoryService) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest, userID string) (*CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	if category.Kind != req.Kind || category.IsPercentageBased != req.IsPercentageBased {
		refs, countErr := s.ruleRepo.CountReferencingCategory(ctx, categoryID)
		if countErr != nil {
			return nil, fmt.Errorf("failed to check rule references: %w", countErr)
		}
		if refs > 0 {
			return nil, &payroll.ValidationError{
				Field:  "kind",
				Reason: fmt.Sprintf("kind and percentage flag are immutable while %d rule(s) reference the category", refs),
			}
		}
	}

	category.Name = req.Name
	category.Kind = req.Kind
	category.IsPercentageBased = req.IsPercentageBased
	category.Description = req.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.audit(ctx, userID, model.ActionUpdateCategory, category.ID.String(), category.Name, req)

	resp := toCategoryResponse(*category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id string, userID string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("category not found: %w", err)
	}

	refs, err := s.ruleRepo.CountReferencingCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check rule references: %w", err)
	}
	if refs > 0 {
		return &payroll.ReferentialIntegrityError{Entity: "category", ID: categoryID, RuleCount: refs}
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.audit(ctx, userID, model.ActionDeleteCategory, id, category.Name, map[string]string{"deleted_id": id})

	return nil
}

// --- Helpers ---

func toCategoryResponse(c model.SalaryCategory) CategoryResponse {
	return CategoryResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		Kind:              c.Kind,
		IsPercentageBased: c.IsPercentageBased,
		Description:       c.Description,
		CreatedAt:         c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// audit writes a best-effort audit row — admin mutations should not fail
// because the log write did.
func (s *categoryService) audit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	writeAudit(ctx, s.auditRepo, userID, action, entityID, entityName, details)
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) {
	if repo == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	_ = repo.Log(ctx, &entry)
}
