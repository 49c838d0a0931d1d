package errors

import (
	"fmt"
	"net/http"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
)

type ErrorType string

const (
	ValidationError        ErrorType = "VALIDATION_ERROR"
	NotFoundError          ErrorType = "NOT_FOUND"
	DatabaseError          ErrorType = "DATABASE_ERROR"
	ServerError            ErrorType = "SERVER_ERROR"
	ConflictError          ErrorType = "CONFLICT"
	RelationshipNotFound   ErrorType = "RELATIONSHIP_NOT_FOUND"
	ExpenseNotFoundError   ErrorType = "EXPENSE_NOT_FOUND"
	InconsistentStateError ErrorType = "INCONSISTENT_STATE"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors
func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log original error but return sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// NoRelationship indicates that the two users have no ledger rows linking them.
// Settlement requires an existing relationship, so this maps to 404.
func NoRelationship(userID, counterpartID string) *AppError {
	return &AppError{
		Type:       RelationshipNotFound,
		Message:    "Relationship not found",
		Detail:     fmt.Sprintf("No balance rows between user %s and user %s", userID, counterpartID),
		HTTPStatus: http.StatusNotFound,
	}
}

func ExpenseNotFound(id string) *AppError {
	return &AppError{
		Type:       ExpenseNotFoundError,
		Message:    "Expense not found",
		Detail:     fmt.Sprintf("Expense ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// InconsistentBalance reports a zero-sum violation between the two directed
// rows of a relationship. This indicates a storage race and is surfaced to the
// caller rather than silently repaired.
func InconsistentBalance(userID, counterpartID string, detail string) *AppError {
	return &AppError{
		Type:       InconsistentStateError,
		Message:    "Ledger balances are inconsistent",
		Detail:     fmt.Sprintf("Rows between user %s and user %s do not sum to zero: %s", userID, counterpartID, detail),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case DatabaseError:
		return http.StatusInternalServerError
	case ConflictError:
		return http.StatusConflict
	case RelationshipNotFound:
		return http.StatusNotFound
	case ExpenseNotFoundError:
		return http.StatusNotFound
	case InconsistentStateError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
