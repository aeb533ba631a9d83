package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RuleRepository interface {
	Create(ctx context.Context, rule *model.SalaryRule) error
	Update(ctx context.Context, rule *model.SalaryRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalaryRule, error)
	List(ctx context.Context, page, limit int) ([]model.SalaryRule, int64, error)
	ListAll(ctx context.Context) ([]model.SalaryRule, error)
	CountReferencingCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	CountReferencingRange(ctx context.Context, rangeID uuid.UUID) (int64, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(ctx context.Context, rule *model.SalaryRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *ruleRepository) Update(ctx context.Context, rule *model.SalaryRule) error {
	return GetDB(ctx, r.db).Save(rule).Error
}

func (r *ruleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SalaryRule{}).Error
}

func (r *ruleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SalaryRule, error) {
	var rule model.SalaryRule
	if err := GetDB(ctx, r.db).Preload("Category").Preload("Range").First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) List(ctx context.Context, page, limit int) ([]model.SalaryRule, int64, error) {
	var rules []model.SalaryRule
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SalaryRule{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Category").Preload("Range").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

func (r *ruleRepository) ListAll(ctx context.Context) ([]model.SalaryRule, error) {
	var rules []model.SalaryRule
	if err := GetDB(ctx, r.db).Preload("Category").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// CountReferencingCategory counts rules bound to the category either as their
// own category or as the base they compute from.
func (r *ruleRepository) CountReferencingCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.SalaryRule{}).
		Where("category_id = ? OR applies_to_category_id = ?", categoryID, categoryID).
		Count(&count).Error
	return count, err
}

func (r *ruleRepository) CountReferencingRange(ctx context.Context, rangeID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.SalaryRule{}).
		Where("range_id = ?", rangeID).
		Count(&count).Error
	return count, err
}
