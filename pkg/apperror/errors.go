package apperror

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/sangkips/counterpos/pkg/display"
	"github.com/sangkips/counterpos/pkg/pricing"
	"github.com/sangkips/counterpos/pkg/printer"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code      int          `json:"code"`
	ErrorCode string       `json:"error_code,omitempty"`
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors,omitempty"`
	Details   interface{}  `json:"details,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewServiceUnavailableError reports a device or dependency that cannot be reached
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError. Domain errors from the pricing,
// printer and display packages map to their HTTP equivalents; anything else
// is an internal error.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if cerr, ok := pricing.AsCouponError(err); ok {
		return &AppError{
			Code:      http.StatusBadRequest,
			ErrorCode: cerr.Code.String(),
			Message:   cerr.Message,
			Details:   cerr.Details,
		}
	}

	switch {
	case pricing.IsValidation(err):
		return &AppError{
			Code:      http.StatusUnprocessableEntity,
			ErrorCode: "VALIDATION_ERROR",
			Message:   err.Error(),
		}
	case printer.IsTransportError(err):
		return &AppError{
			Code:      http.StatusServiceUnavailable,
			ErrorCode: "PRINTER_UNAVAILABLE",
			Message:   err.Error(),
		}
	case errors.Is(err, display.ErrPortUnavailable):
		return &AppError{
			Code:      http.StatusServiceUnavailable,
			ErrorCode: "DISPLAY_UNAVAILABLE",
			Message:   err.Error(),
		}
	}

	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: ErrInternalServer.Message,
	}
}
