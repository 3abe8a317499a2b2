package shared

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrorCategory classifies errors raised by the services.
type ErrorCategory string

const (
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryNotFound      ErrorCategory = "not_found"
	ErrorCategoryConflict      ErrorCategory = "conflict"
	ErrorCategoryAuthorization ErrorCategory = "authorization"
	ErrorCategoryDatabase      ErrorCategory = "database"
	ErrorCategoryProcessing    ErrorCategory = "processing"
)

// ServiceError is a categorized error with operation context. Handlers map
// the category to an HTTP status and surface only Message to the caller.
type ServiceError struct {
	Category  ErrorCategory `json:"category"`
	Message   string        `json:"message"`
	Operation string        `json:"operation"`
	Timestamp time.Time     `json:"timestamp"`
	Cause     error         `json:"-"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a categorized error.
func NewServiceError(category ErrorCategory, message, operation string, cause error) *ServiceError {
	return &ServiceError{
		Category:  category,
		Message:   message,
		Operation: operation,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewValidationError reports a field- or row-scoped validation failure.
func NewValidationError(message, operation string) *ServiceError {
	return NewServiceError(ErrorCategoryValidation, message, operation, nil)
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(message, operation string) *ServiceError {
	return NewServiceError(ErrorCategoryNotFound, message, operation, nil)
}

// NewConflictError reports a uniqueness violation in user-facing terms.
func NewConflictError(message, operation string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryConflict, message, operation, cause)
}

// CategoryOf returns the category of err, or ErrorCategoryProcessing for
// errors the services did not classify.
func CategoryOf(err error) ErrorCategory {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Category
	}
	return ErrorCategoryProcessing
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. Services convert these into conflict errors so raw store
// errors never reach the caller.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// LogError logs a service error with structured fields.
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category": e.Category,
		"error_message":  e.Message,
		"operation":      e.Operation,
		"cause":          e.Cause,
	}).Error("Service error occurred")
}
