package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetService service.AssetService
}

func NewAssetHandler(assetService service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/api/assets")
	assets.Use(middleware.RequireRole("admin", "manager"))
	{
		assets.GET("", h.ListAssets)
		assets.POST("", h.CreateAsset)
		assets.POST("/issue", h.IssueAsset)
		assets.POST("/return", h.ReturnAsset)
	}
}

// ListAssets returns a page of office assets with stock levels
// @Summary      List office assets
// @Tags         assets
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	params := pagination.Parse(c)

	assets, total, err := h.assetService.ListAssets(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"assets": assets,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// CreateAsset registers a new office asset
// @Summary      Create an office asset
// @Tags         assets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateAssetRequest  true  "Asset"
// @Success      201  {object}  response.Response
// @Router       /api/assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// IssueAsset hands stock to an employee, guarding against negative stock
// @Summary      Issue an asset to an employee
// @Tags         assets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.IssueAssetRequest  true  "Issue"
// @Success      200  {object}  response.Response
// @Router       /api/assets/issue [post]
func (h *AssetHandler) IssueAsset(c *gin.Context) {
	var req service.IssueAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.assetService.IssueAsset(c.Request.Context(), req, c.GetString("userID")); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"issued": true}))
}

// ReturnAsset takes stock back from an employee
// @Summary      Return an asset from an employee
// @Tags         assets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.IssueAssetRequest  true  "Return"
// @Success      200  {object}  response.Response
// @Router       /api/assets/return [post]
func (h *AssetHandler) ReturnAsset(c *gin.Context) {
	var req service.IssueAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.assetService.ReturnAsset(c.Request.Context(), req, c.GetString("userID")); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"returned": true}))
}
