package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationType enum constants
const (
	CalculationPercentage = "PERCENTAGE"
	CalculationFixed      = "FIXED"
)

// SalaryRule defines how a category's amount is computed for an employee.
//
// RangeID NULL means the rule applies regardless of bracket ("applies to all").
// AppliesToCategoryID NULL means the base is the employee's raw base salary;
// otherwise the base is the computed amount of the referenced category for the
// same employee. The graph formed by AppliesToCategoryID edges must be acyclic.
type SalaryRule struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category            *SalaryCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	RangeID             *uuid.UUID      `gorm:"type:uuid;index" json:"range_id"`
	Range               *SalaryRange    `gorm:"foreignKey:RangeID" json:"range,omitempty"`
	CalculationType     string          `gorm:"type:varchar(20);not null" json:"calculation_type"` // PERCENTAGE, FIXED
	Value               decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"value"`
	AppliesToCategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"applies_to_category_id"`
	AppliesToCategory   *SalaryCategory `gorm:"foreignKey:AppliesToCategoryID" json:"applies_to_category,omitempty"`
	Description         string          `gorm:"type:text" json:"description"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ValidCalculationType reports whether s is one of the calculation constants.
func ValidCalculationType(s string) bool {
	return s == CalculationPercentage || s == CalculationFixed
}
