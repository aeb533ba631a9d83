package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OvertimeHandler struct {
	overtimeService service.OvertimeService
}

func NewOvertimeHandler(overtimeService service.OvertimeService) *OvertimeHandler {
	return &OvertimeHandler{overtimeService: overtimeService}
}

func (h *OvertimeHandler) RegisterRoutes(router *gin.RouterGroup) {
	overtime := router.Group("/api/overtime")
	{
		overtime.POST("/requests", middleware.RequireRole("admin", "manager", "staff"), h.CreateRequest)
		overtime.GET("/requests", middleware.RequireRole("admin", "manager"), h.ListRequests)
		overtime.POST("/approve", middleware.RequireRole("admin", "manager"), h.ApproveMonth)
	}
}

// CreateRequest files an overtime request for an employee
// @Summary      Create an overtime request
// @Tags         overtime
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateOvertimeRequestDTO  true  "Request"
// @Success      201  {object}  response.Response
// @Router       /api/overtime/requests [post]
func (h *OvertimeHandler) CreateRequest(c *gin.Context) {
	var req service.CreateOvertimeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.overtimeService.CreateRequest(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListRequests returns a page of overtime requests, optionally by status
// @Summary      List overtime requests
// @Tags         overtime
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/overtime/requests [get]
func (h *OvertimeHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)

	requests, total, err := h.overtimeService.ListRequests(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ApproveMonth approves a batch of requests for one payroll month and
// maintains each employee's overtime assignment as the month sum
// @Summary      Approve overtime requests for a month
// @Tags         overtime
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ApproveOvertimeRequest  true  "Approval batch"
// @Success      200  {object}  response.Response
// @Router       /api/overtime/approve [post]
func (h *OvertimeHandler) ApproveMonth(c *gin.Context) {
	var req service.ApproveOvertimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.overtimeService.ApproveMonth(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
