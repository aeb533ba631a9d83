package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee is the payroll view of the employee directory.
// BaseSalary is nullable: payroll evaluation fails explicitly for employees
// without one instead of defaulting to zero.
type Employee struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName   string           `gorm:"type:varchar(255);not null" json:"full_name"`
	Email      string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Position   string           `gorm:"type:varchar(100)" json:"position"`
	BaseSalary *decimal.Decimal `gorm:"type:decimal(15,2)" json:"base_salary"`
	HiredAt    *time.Time       `gorm:"type:date" json:"hired_at"`
	CreatedAt  time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}
