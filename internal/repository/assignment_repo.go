package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KindSummary is an aggregate of persisted amounts per category kind.
type KindSummary struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
	Total string `json:"total"`
}

type AssignmentRepository interface {
	Upsert(ctx context.Context, assignment *model.CategoryAssignment) error
	UpsertBatch(ctx context.Context, assignments []model.CategoryAssignment) error
	Remove(ctx context.Context, employeeID, categoryID uuid.UUID) error
	Find(ctx context.Context, employeeID, categoryID uuid.UUID) (*model.CategoryAssignment, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.CategoryAssignment, error)
	SummaryByKind(ctx context.Context) ([]KindSummary, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// assignmentConflict is the unique key (employee_id, category_id). The upsert
// is a single atomic INSERT ... ON CONFLICT UPDATE so concurrent evaluations
// serialize on the constraint: last accepted write wins.
var assignmentConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "employee_id"}, {Name: "category_id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"category_amount", "assigned_by", "updated_at",
	}),
}

func (r *assignmentRepository) Upsert(ctx context.Context, assignment *model.CategoryAssignment) error {
	assignment.UpdatedAt = time.Now()
	return GetDB(ctx, r.db).Clauses(assignmentConflict).Create(assignment).Error
}

func (r *assignmentRepository) UpsertBatch(ctx context.Context, assignments []model.CategoryAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	now := time.Now()
	for i := range assignments {
		assignments[i].UpdatedAt = now
	}
	return GetDB(ctx, r.db).Clauses(assignmentConflict).Create(&assignments).Error
}

func (r *assignmentRepository) Remove(ctx context.Context, employeeID, categoryID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("employee_id = ? AND category_id = ?", employeeID, categoryID).
		Delete(&model.CategoryAssignment{}).Error
}

func (r *assignmentRepository) Find(ctx context.Context, employeeID, categoryID uuid.UUID) (*model.CategoryAssignment, error) {
	var assignment model.CategoryAssignment
	if err := GetDB(ctx, r.db).
		First(&assignment, "employee_id = ? AND category_id = ?", employeeID, categoryID).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.CategoryAssignment, error) {
	var assignments []model.CategoryAssignment
	if err := GetDB(ctx, r.db).Preload("Category").
		Where("employee_id = ?", employeeID).
		Order("updated_at desc").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) SummaryByKind(ctx context.Context) ([]KindSummary, error) {
	var rows []KindSummary
	err := GetDB(ctx, r.db).Model(&model.CategoryAssignment{}).
		Select("salary_categories.kind AS kind, COUNT(*) AS count, COALESCE(SUM(category_assignments.category_amount), 0) AS total").
		Joins("JOIN salary_categories ON salary_categories.id = category_assignments.category_id").
		Group("salary_categories.kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
