package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/payroll"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateAssetRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

type IssueAssetRequest struct {
	AssetID    string `json:"asset_id" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Note       string `json:"note"`
}

type AssetResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// --- Interface ---

type AssetService interface {
	ListAssets(ctx context.Context, page, limit int) ([]AssetResponse, int64, error)
	CreateAsset(ctx context.Context, req CreateAssetRequest, userID string) (*AssetResponse, error)
	IssueAsset(ctx context.Context, req IssueAssetRequest, userID string) error
	ReturnAsset(ctx context.Context, req IssueAssetRequest, userID string) error
}

type assetService struct {
	assetRepo    repository.AssetRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewAssetService(
	assetRepo repository.AssetRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) AssetService {
	return &assetService{
		assetRepo:    assetRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *assetService) ListAssets(ctx context.Context, page, limit int) ([]AssetResponse, int64, error) {
	assets, total, err := s.assetRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}

	res := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		res = append(res, AssetResponse{ID: a.ID.String(), Code: a.Code, Name: a.Name, Quantity: a.Quantity})
	}
	return res, total, nil
}

func (s *assetService) CreateAsset(ctx context.Context, req CreateAssetRequest, userID string) (*AssetResponse, error) {
	if req.Quantity < 0 {
		return nil, &payroll.ValidationError{Field: "quantity", Reason: "must be >= 0"}
	}

	asset := model.OfficeAsset{
		Code:     req.Code,
		Name:     req.Name,
		Quantity: req.Quantity,
	}

	if err := s.assetRepo.Create(ctx, &asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return &AssetResponse{ID: asset.ID.String(), Code: asset.Code, Name: asset.Name, Quantity: asset.Quantity}, nil
}

// IssueAsset hands stock to an employee. The stock decrement and the movement
// record commit together; the decrement itself is one guarded UPDATE, so a
// racing issue cannot oversell from a stale read.
func (s *assetService) IssueAsset(ctx context.Context, req IssueAssetRequest, userID string) error {
	return s.move(ctx, req, userID, model.AssetIssueOut, -req.Quantity, model.ActionIssueAsset)
}

// ReturnAsset takes stock back from an employee.
func (s *assetService) ReturnAsset(ctx context.Context, req IssueAssetRequest, userID string) error {
	return s.move(ctx, req, userID, model.AssetIssueReturn, req.Quantity, model.ActionReturnAsset)
}

// --- Internals ---

func (s *assetService) move(ctx context.Context, req IssueAssetRequest, userID, issueType string, delta int, action string) error {
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return &payroll.ValidationError{Field: "asset_id", Reason: "not a uuid"}
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return &payroll.ValidationError{Field: "employee_id", Reason: "not a uuid"}
	}

	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return fmt.Errorf("employee not found: %w", err)
	}

	var issuedBy *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		issuedBy = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if adjustErr := s.assetRepo.AdjustQuantity(txCtx, assetID, delta); adjustErr != nil {
			return adjustErr
		}

		issue := model.AssetIssue{
			AssetID:         assetID,
			EmployeeID:      employeeID,
			IssueType:       issueType,
			QuantityChanged: delta,
			IssuedBy:        issuedBy,
			Note:            req.Note,
		}
		return s.assetRepo.CreateIssue(txCtx, &issue)
	})
	if err != nil {
		return err
	}

	writeAudit(ctx, s.auditRepo, userID, action, req.AssetID, "", map[string]interface{}{
		"employee_id": req.EmployeeID,
		"quantity":    req.Quantity,
	})

	return nil
}
