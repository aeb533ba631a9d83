package payroll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for the evaluation engine. Use with errors.Is();
// the structured types below carry the details and unwrap to these.
var (
	// ErrValidation is returned for bad input shapes or out-of-range values.
	ErrValidation = errors.New("validation failed")

	// ErrReferentialIntegrity is returned when a delete would orphan rules
	// that still reference the entity.
	ErrReferentialIntegrity = errors.New("entity is referenced by existing rules")

	// ErrDependencyCycle is returned when the applies-to edges between rules
	// form a cycle and no evaluation order exists.
	ErrDependencyCycle = errors.New("rule dependency cycle detected")

	// ErrConfiguration is returned when a required well-known entity (the
	// overtime category) is not configured or does not exist.
	ErrConfiguration = errors.New("payroll configuration missing")

	// ErrMissingBaseSalary is returned when an employee has no base salary
	// needed for a calculation. Never defaulted to zero.
	ErrMissingBaseSalary = errors.New("employee has no base salary")

	// ErrConflict is returned for unique-constraint violations that an
	// upsert could not resolve.
	ErrConflict = errors.New("conflicting concurrent write")
)

// ValidationError reports a specific invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ReferentialIntegrityError reports a blocked delete.
type ReferentialIntegrityError struct {
	Entity    string // "category" or "range"
	ID        uuid.UUID
	RuleCount int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %s: referenced by %d rule(s)", e.Entity, e.ID, e.RuleCount)
}

func (e *ReferentialIntegrityError) Unwrap() error { return ErrReferentialIntegrity }

// DependencyCycleError names the categories involved in a rule cycle.
type DependencyCycleError struct {
	CategoryIDs []uuid.UUID
}

func (e *DependencyCycleError) Error() string {
	ids := make([]string, 0, len(e.CategoryIDs))
	for _, id := range e.CategoryIDs {
		ids = append(ids, id.String())
	}
	return "rule dependency cycle between categories: " + strings.Join(ids, ", ")
}

func (e *DependencyCycleError) Unwrap() error { return ErrDependencyCycle }

// ConfigurationError reports a missing or invalid well-known reference.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Key, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// MissingBaseSalaryError identifies the employee lacking a base salary.
type MissingBaseSalaryError struct {
	EmployeeID uuid.UUID
}

func (e *MissingBaseSalaryError) Error() string {
	return fmt.Sprintf("employee %s has no base salary", e.EmployeeID)
}

func (e *MissingBaseSalaryError) Unwrap() error { return ErrMissingBaseSalary }
