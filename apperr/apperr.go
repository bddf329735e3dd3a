// Package apperr defines the error taxonomy shared by the inventory engine.
// Single-item operations fail fast with one of these; batch sweeps catch
// them per item and keep going.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input (non-positive quantity, empty
// unit and the like).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an unknown id, or one not owned by the caller.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Shortfall is one unsatisfiable ingredient of a deduction request.
type Shortfall struct {
	FoodID    uint    `json:"food_id"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
}

// InsufficientStockError reports that a usage or cook request exceeds the
// available quantity. It is always an atomic no-op: nothing was deducted.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d ingredient(s)", len(e.Shortfalls))
}

// ConflictError reports that a concurrent mutation invalidated an in-flight
// two-phase operation; the caller may retry.
type ConflictError struct {
	Resource string
	ID       any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent update conflict on %s %v", e.Resource, e.ID)
}

func Conflict(resource string, id any) *ConflictError {
	return &ConflictError{Resource: resource, ID: id}
}

// PersistenceError wraps a store I/O failure. The engine never retries
// internally; the caller decides.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}
