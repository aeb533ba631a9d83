package handler

import (
	"errors"
	"net/http"

	"backend/internal/payroll"
	"backend/internal/repository"

	"gorm.io/gorm"
)

// statusFor maps engine error kinds to HTTP statuses so collaborators see the
// taxonomy directly instead of a generic failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, payroll.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, payroll.ErrReferentialIntegrity), errors.Is(err, payroll.ErrConflict),
		errors.Is(err, repository.ErrInsufficientAssetStock):
		return http.StatusConflict
	case errors.Is(err, payroll.ErrDependencyCycle), errors.Is(err, payroll.ErrMissingBaseSalary):
		return http.StatusUnprocessableEntity
	case errors.Is(err, payroll.ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
