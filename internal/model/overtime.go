package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OvertimeStatus enum constants
const (
	OvertimeStatusPending  = "PENDING"
	OvertimeStatusApproved = "APPROVED"
	OvertimeStatusRejected = "REJECTED"
)

// OvertimeRequest is an employee's claim of extra hours worked on a date.
// Its status is set by the approval workflow; the engine only consumes
// approved records.
type OvertimeRequest struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Date       time.Time       `gorm:"type:date;not null" json:"date"`
	Hours      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours"`
	Reason     string          `gorm:"type:text" json:"reason"`
	Status     string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OvertimeApproval records the computed overtime amount for a request within a
// payroll month. Unique on (overtime_request_id, month): re-approving the same
// request in the same month updates the row instead of duplicating it.
type OvertimeApproval struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OvertimeRequestID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_request_month" json:"overtime_request_id"`
	Request           *OvertimeRequest `gorm:"foreignKey:OvertimeRequestID" json:"request,omitempty"`
	EmployeeID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"employee_id"`
	CalculatedAmount  decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"calculated_amount"`
	Month             string           `gorm:"type:varchar(7);not null;uniqueIndex:idx_request_month;index" json:"month"` // YYYY-MM
	ApprovedBy        *uuid.UUID       `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt        time.Time        `json:"approved_at"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
