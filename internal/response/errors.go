package response

import (
	"errors"
	"fmt"
	"net/http"

	"hirehub/internal/repositories"
	"hirehub/internal/validation"
)

// Error types reported in the response envelope
const (
	TypeValidation = "VALIDATION_ERROR"
	TypeNotFound   = "NOT_FOUND"
	TypeConflict   = "CONFLICT"
	TypeInternal   = "INTERNAL_ERROR"
)

// statusCodes maps error types to HTTP status codes
var statusCodes = map[string]int{
	TypeValidation: http.StatusBadRequest,
	TypeNotFound:   http.StatusNotFound,
	TypeConflict:   http.StatusConflict,
	TypeInternal:   http.StatusInternalServerError,
}

// APIError is an error the HTTP layer knows how to render
type APIError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *APIError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	if code, ok := statusCodes[e.Type]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *APIError {
	return &APIError{
		Type:       TypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:       TypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string, cause error) *APIError {
	return &APIError{
		Type:       TypeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
		Cause:      cause,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *APIError {
	return &APIError{
		Type:       TypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FromError classifies err into an APIError. Repository sentinels and
// validation failures become client errors; anything else is internal.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		ve := NewValidationError("Validation failed", err)
		ve.Code = "INVALID_FIELDS"
		for _, fe := range fieldErrs {
			ve.Fields = append(ve.Fields, FieldError{
				Field:   fe.Field,
				Message: fieldMessage(fe),
				Code:    fe.Tag,
			})
		}
		return ve
	}

	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		e := NewConflictError("Record already exists", err)
		e.Code = "DUPLICATE"
		return e
	case errors.Is(err, repositories.ErrForeignKey):
		e := NewValidationError("Referenced record does not exist", err)
		e.Code = "UNKNOWN_REFERENCE"
		return e
	case errors.Is(err, repositories.ErrInvalidInput):
		e := NewValidationError("Invalid input", err)
		e.Code = "INVALID_INPUT"
		return e
	}

	return NewInternalError("Internal server error", err)
}

func fieldMessage(fe validation.FieldError) string {
	switch fe.Tag {
	case "required":
		return fe.Field + " is required"
	case "email":
		return fe.Field + " must be a valid email address"
	case "url":
		return fe.Field + " must be a valid URL"
	case "oneof":
		return fe.Field + " must be one of: " + fe.Param
	case "min":
		return fe.Field + " must be at least " + fe.Param
	case "max":
		return fe.Field + " must be at most " + fe.Param
	}
	return fe.Field + " is invalid"
}
