package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateCategory = "CREATE_CATEGORY"
	ActionUpdateCategory = "UPDATE_CATEGORY"
	ActionDeleteCategory = "DELETE_CATEGORY"
	ActionCreateRange    = "CREATE_RANGE"
	ActionUpdateRange    = "UPDATE_RANGE"
	ActionDeleteRange    = "DELETE_RANGE"
	ActionCreateRule     = "CREATE_RULE"
	ActionUpdateRule     = "UPDATE_RULE"
	ActionDeleteRule     = "DELETE_RULE"

	// Payroll run actions
	ActionEvaluatePayroll  = "EVALUATE_PAYROLL"
	ActionAssignCategory   = "ASSIGN_CATEGORY"
	ActionUnassignCategory = "UNASSIGN_CATEGORY"
	ActionApproveOvertime  = "APPROVE_OVERTIME"

	ActionIssueAsset  = "ISSUE_ASSET"
	ActionReturnAsset = "RETURN_ASSET"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
