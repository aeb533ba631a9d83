package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OvertimeRepository interface {
	CreateRequest(ctx context.Context, request *model.OvertimeRequest) error
	UpdateRequest(ctx context.Context, request *model.OvertimeRequest) error
	FindRequest(ctx context.Context, id uuid.UUID) (*model.OvertimeRequest, error)
	ListRequests(ctx context.Context, status string, page, limit int) ([]model.OvertimeRequest, int64, error)
	UpsertApproval(ctx context.Context, approval *model.OvertimeApproval) error
	SumApprovedForMonth(ctx context.Context, employeeID uuid.UUID, month string) (decimal.Decimal, error)
	ListApprovalsByMonth(ctx context.Context, month string) ([]model.OvertimeApproval, error)
}

type overtimeRepository struct {
	db *gorm.DB
}

func NewOvertimeRepository(db *gorm.DB) OvertimeRepository {
	return &overtimeRepository{db: db}
}

func (r *overtimeRepository) CreateRequest(ctx context.Context, request *model.OvertimeRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *overtimeRepository) UpdateRequest(ctx context.Context, request *model.OvertimeRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}

func (r *overtimeRepository) FindRequest(ctx context.Context, id uuid.UUID) (*model.OvertimeRequest, error) {
	var request model.OvertimeRequest
	if err := GetDB(ctx, r.db).Preload("Employee").First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *overtimeRepository) ListRequests(ctx context.Context, status string, page, limit int) ([]model.OvertimeRequest, int64, error) {
	var requests []model.OvertimeRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.OvertimeRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := db.Preload("Employee")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("date desc").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// UpsertApproval writes the approval row keyed by (overtime_request_id, month):
// re-approving the same request in the same month updates the existing row.
func (r *overtimeRepository) UpsertApproval(ctx context.Context, approval *model.OvertimeApproval) error {
	approval.UpdatedAt = time.Now()
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "overtime_request_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"calculated_amount", "approved_by", "approved_at", "updated_at",
		}),
	}).Create(approval).Error
}

func (r *overtimeRepository) SumApprovedForMonth(ctx context.Context, employeeID uuid.UUID, month string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.OvertimeApproval{}).
		Where("employee_id = ? AND month = ?", employeeID, month).
		Select("SUM(calculated_amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *overtimeRepository) ListApprovalsByMonth(ctx context.Context, month string) ([]model.OvertimeApproval, error) {
	var approvals []model.OvertimeApproval
	if err := GetDB(ctx, r.db).Preload("Request").
		Where("month = ?", month).
		Order("approved_at desc").
		Find(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}
