package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryKind enum constants
const (
	CategoryKindDeduction = "DEDUCTION"
	CategoryKindAddition  = "ADDITION"
	CategoryKindAllowance = "ALLOWANCE"
)

// SalaryCategory is a named salary component (deduction, addition or allowance).
// Kind and IsPercentageBased become immutable once a rule references the category.
type SalaryCategory struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Kind              string    `gorm:"type:varchar(20);not null;index" json:"kind"` // DEDUCTION, ADDITION, ALLOWANCE
	IsPercentageBased bool      `gorm:"not null;default:false" json:"is_percentage_based"`
	Description       string    `gorm:"type:text" json:"description"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ValidCategoryKind reports whether s is one of the kind constants.
func ValidCategoryKind(s string) bool {
	return s == CategoryKindDeduction || s == CategoryKindAddition || s == CategoryKindAllowance
}
