package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RangeRepository interface {
	Create(ctx context.Context, bracket *model.SalaryRange) error
	Update(ctx context.Context, bracket *model.SalaryRange) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalaryRange, error)
	ListAll(ctx context.Context) ([]model.SalaryRange, error)
	FindBracket(ctx context.Context, amount decimal.Decimal) (*model.SalaryRange, error)
	FindOverlapping(ctx context.Context, min decimal.Decimal, max *decimal.Decimal, excludeID *uuid.UUID) (int64, error)
}

type rangeRepository struct {
	db *gorm.DB
}

func NewRangeRepository(db *gorm.DB) RangeRepository {
	return &rangeRepository{db: db}
}

func (r *rangeRepository) Create(ctx context.Context, bracket *model.SalaryRange) error {
	return GetDB(ctx, r.db).Create(bracket).Error
}

func (r *rangeRepository) Update(ctx context.Context, bracket *model.SalaryRange) error {
	return GetDB(ctx, r.db).Save(bracket).Error
}

func (r *rangeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SalaryRange{}).Error
}

func (r *rangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SalaryRange, error) {
	var bracket model.SalaryRange
	if err := GetDB(ctx, r.db).First(&bracket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bracket, nil
}

func (r *rangeRepository) ListAll(ctx context.Context) ([]model.SalaryRange, error) {
	var brackets []model.SalaryRange
	if err := GetDB(ctx, r.db).Order("min_amount asc").Find(&brackets).Error; err != nil {
		return nil, err
	}
	return brackets, nil
}

// FindBracket returns the range whose [min_amount, max_amount) contains
// amount, NULL max_amount meaning unbounded. No match returns (nil, nil).
func (r *rangeRepository) FindBracket(ctx context.Context, amount decimal.Decimal) (*model.SalaryRange, error) {
	var bracket model.SalaryRange
	err := GetDB(ctx, r.db).
		Where("min_amount <= ? AND (max_amount IS NULL OR max_amount > ?)", amount, amount).
		Order("min_amount DESC").
		First(&bracket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bracket, nil
}

// FindOverlapping counts brackets whose [min, max) interval intersects the
// given one, optionally excluding a bracket being updated.
func (r *rangeRepository) FindOverlapping(ctx context.Context, min decimal.Decimal, max *decimal.Decimal, excludeID *uuid.UUID) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.SalaryRange{})

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if max != nil {
		// Bounded candidate: overlap if existing.min < new.max AND (existing.max IS NULL OR existing.max > new.min)
		query = query.Where("min_amount < ? AND (max_amount IS NULL OR max_amount > ?)", *max, min)
	} else {
		// Unbounded candidate: overlap with anything extending past new.min
		query = query.Where("(max_amount IS NULL OR max_amount > ?)", min)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
