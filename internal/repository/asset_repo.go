package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientAssetStock = fmt.Errorf("insufficient asset stock")

type AssetRepository interface {
	Create(ctx context.Context, asset *model.OfficeAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OfficeAsset, error)
	List(ctx context.Context, page, limit int) ([]model.OfficeAsset, int64, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
	CreateIssue(ctx context.Context, issue *model.AssetIssue) error
	ListIssuesByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.AssetIssue, error)
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *model.OfficeAsset) error {
	return GetDB(ctx, r.db).Create(asset).Error
}

func (r *assetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.OfficeAsset, error) {
	var asset model.OfficeAsset
	if err := GetDB(ctx, r.db).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, page, limit int) ([]model.OfficeAsset, int64, error) {
	var assets []model.OfficeAsset
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.OfficeAsset{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&assets).Error; err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

// AdjustQuantity applies the stock delta in a single guarded UPDATE so two
// concurrent issues cannot both pass a stale read. A delta that would drive
// the quantity negative matches no row and fails.
func (r *assetRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	result := GetDB(ctx, r.db).Model(&model.OfficeAsset{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("asset %s: %w", id, ErrInsufficientAssetStock)
	}
	return nil
}

func (r *assetRepository) CreateIssue(ctx context.Context, issue *model.AssetIssue) error {
	return GetDB(ctx, r.db).Create(issue).Error
}

func (r *assetRepository) ListIssuesByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.AssetIssue, error) {
	var issues []model.AssetIssue
	if err := GetDB(ctx, r.db).Preload("Asset").
		Where("employee_id = ?", employeeID).
		Order("created_at desc").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}
