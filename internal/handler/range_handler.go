package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RangeHandler struct {
	rangeService service.RangeService
}

func NewRangeHandler(rangeService service.RangeService) *RangeHandler {
	return &RangeHandler{rangeService: rangeService}
}

func (h *RangeHandler) RegisterRoutes(router *gin.RouterGroup) {
	ranges := router.Group("/api/salary-ranges")
	ranges.Use(middleware.RequireRole("admin", "manager"))
	{
		ranges.GET("", h.ListRanges)
		ranges.GET("/bracket", h.FindBracket)
		ranges.POST("", h.CreateRange)
		ranges.PUT("/:id", h.UpdateRange)
		ranges.DELETE("/:id", h.DeleteRange)
	}
}

// ListRanges returns all salary brackets ordered by min_amount
// @Summary      List salary ranges
// @Tags         ranges
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/salary-ranges [get]
func (h *RangeHandler) ListRanges(c *gin.Context) {
	ranges, err := h.rangeService.ListRanges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ranges))
}

// FindBracket returns the bracket containing the given amount, if any
// @Summary      Find the bracket for an amount
// @Tags         ranges
// @Security     BearerAuth
// @Produce      json
// @Param        amount  query  string  true  "Amount (decimal)"
// @Success      200  {object}  response.Response
// @Router       /api/salary-ranges/bracket [get]
func (h *RangeHandler) FindBracket(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid amount: "+err.Error()))
		return
	}

	bracket, err := h.rangeService.FindBracket(c.Request.Context(), amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	if bracket == nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "no bracket contains this amount"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bracket))
}

// CreateRange creates a salary bracket
// @Summary      Create a salary range
// @Tags         ranges
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRangeRequest  true  "Range"
// @Success      201  {object}  response.Response
// @Router       /api/salary-ranges [post]
func (h *RangeHandler) CreateRange(c *gin.Context) {
	var req service.CreateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bracket, err := h.rangeService.CreateRange(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, bracket))
}

// UpdateRange updates a salary bracket
// @Summary      Update a salary range
// @Tags         ranges
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Range ID"
// @Param        payload  body  service.UpdateRangeRequest  true  "Range"
// @Success      200  {object}  response.Response
// @Router       /api/salary-ranges/{id} [put]
func (h *RangeHandler) UpdateRange(c *gin.Context) {
	var req service.UpdateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bracket, err := h.rangeService.UpdateRange(c.Request.Context(), c.Param("id"), req, c.GetString("userID"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bracket))
}

// DeleteRange deletes a salary bracket unless rules still reference it
// @Summary      Delete a salary range
// @Tags         ranges
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Range ID"
// @Success      200  {object}  response.Response
// @Router       /api/salary-ranges/{id} [delete]
func (h *RangeHandler) DeleteRange(c *gin.Context) {
	if err := h.rangeService.DeleteRange(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
