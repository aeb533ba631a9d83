package model

import (
	"time"

	"github.com/google/uuid"
)

// AssetIssueType enum constants
const (
	AssetIssueOut    = "ISSUE"
	AssetIssueReturn = "RETURN"
)

// OfficeAsset is a stocked office item (laptops, chairs, access cards) that
// can be issued to employees.
type OfficeAsset struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssetIssue records one stock movement: an asset handed to or returned by an
// employee. QuantityChanged is negative for issues, positive for returns.
type AssetIssue struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset           *OfficeAsset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	EmployeeID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"employee_id"`
	IssueType       string       `gorm:"type:varchar(10);not null" json:"issue_type"` // ISSUE, RETURN
	QuantityChanged int          `gorm:"not null" json:"quantity_changed"`
	IssuedBy        *uuid.UUID   `gorm:"type:uuid" json:"issued_by"`
	Note            string       `gorm:"type:text" json:"note"`
	CreatedAt       time.Time    `json:"created_at"`
}
