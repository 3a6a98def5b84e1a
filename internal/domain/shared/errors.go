package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across modules
const (
	CodeNotFound                = "NOT_FOUND"
	CodeValidation              = "VALIDATION_ERROR"
	CodeInvalidSetConfiguration = "INVALID_SET_CONFIGURATION"
	CodeLocationRequired        = "LOCATION_REQUIRED"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeInvalidStateTransition  = "INVALID_STATE_TRANSITION"
	CodeInvalidState            = "INVALID_STATE"
	CodeConcurrencyConflict     = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrLocationRequired    = NewDomainError(CodeLocationRequired, "Purchase cannot be attributed to any location")
)

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a not-found error naming the missing resource
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id))
}

// NewInsufficientStockError names the offending product and quantities so the
// caller sees exactly which request could not be satisfied.
func NewInsufficientStockError(productName string, available, requested int64) *DomainError {
	return NewDomainError(CodeInsufficientStock,
		fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", productName, available, requested))
}
