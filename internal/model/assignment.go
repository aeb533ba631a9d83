package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryAssignment is the persisted result of evaluating one category for
// one employee. It is a materialized cache of the evaluator's output, unique
// per (employee, category) and overwritten on recomputation.
type CategoryAssignment struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_employee_category" json:"employee_id"`
	Employee       *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_employee_category" json:"category_id"`
	Category       *SalaryCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CategoryAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"category_amount"`
	AssignedBy     *uuid.UUID      `gorm:"type:uuid" json:"assigned_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
