package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	payrollService service.PayrollService
}

func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/api/payroll")
	payroll.Use(middleware.RequireRole("admin", "manager"))
	{
		payroll.POST("/evaluate", h.Evaluate)
		payroll.POST("/assign", h.AssignCategory)
		payroll.DELETE("/assignments/:employee_id/:category_id", h.UnassignCategory)
		payroll.GET("/assignments/:employee_id", h.GetAssignments)
		payroll.GET("/summary", h.Summary)
	}
}

// Evaluate computes category amounts and the net figure for one employee
// @Summary      Evaluate categories for an employee
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.EvaluateEmployeeRequest  true  "Evaluation request"
// @Success      200  {object}  response.Response
// @Router       /api/payroll/evaluate [post]
func (h *PayrollHandler) Evaluate(c *gin.Context) {
	var req service.EvaluateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.payrollService.EvaluateEmployee(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// AssignCategory evaluates one category for many employees and persists the
// amounts, reporting per-employee skips instead of failing the whole batch
// @Summary      Assign a category to employees
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.AssignCategoryRequest  true  "Assignment request"
// @Success      200  {object}  response.Response
// @Router       /api/payroll/assign [post]
func (h *PayrollHandler) AssignCategory(c *gin.Context) {
	var req service.AssignCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.payrollService.AssignCategoryToEmployees(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UnassignCategory removes one employee's assignment of a category
// @Summary      Remove a category assignment
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        employee_id  path  string  true  "Employee ID"
// @Param        category_id  path  string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Router       /api/payroll/assignments/{employee_id}/{category_id} [delete]
func (h *PayrollHandler) UnassignCategory(c *gin.Context) {
	err := h.payrollService.UnassignCategory(c.Request.Context(), c.Param("employee_id"), c.Param("category_id"), c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// GetAssignments lists an employee's current category assignments
// @Summary      List an employee's assignments
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        employee_id  path  string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Router       /api/payroll/assignments/{employee_id} [get]
func (h *PayrollHandler) GetAssignments(c *gin.Context) {
	assignments, err := h.payrollService.GetEmployeeAssignments(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignments))
}

// Summary aggregates assigned amounts grouped by category kind
// @Summary      Payroll summary by category kind
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/payroll/summary [get]
func (h *PayrollHandler) Summary(c *gin.Context) {
	summary, err := h.payrollService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
