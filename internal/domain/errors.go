package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidIdentifier = errors.New("invalid user id")

	// Request errors
	ErrValidation           = errors.New("validation failed")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnsupportedMediaType = errors.New("content type must be application/json")

	// General errors
	ErrInternalError = errors.New("internal server error")
	ErrDatabaseError = errors.New("database error")
)

// Violation одно нарушенное правило поля
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError collects every violated field rule of a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorCode represents API error codes
type ErrorCode string

const (
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeInvalidID            ErrorCode = "INVALID_ID"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeBadRequest           ErrorCode = "BAD_REQUEST"
	CodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details []Violation `json:"details,omitempty"`
}

// Error implements error interface
func (e *APIError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// ToAPIError converts domain errors to API errors
func ToAPIError(err error) *APIError {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		apiErr := NewAPIError(CodeValidationFailed, ErrValidation.Error())
		apiErr.Details = validationErr.Violations
		return apiErr
	case errors.Is(err, ErrInvalidIdentifier):
		return NewAPIError(CodeInvalidID, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return NewAPIError(CodeNotFound, ErrUserNotFound.Error())
	case errors.Is(err, ErrUnsupportedMediaType):
		return NewAPIError(CodeUnsupportedMediaType, ErrUnsupportedMediaType.Error())
	case errors.Is(err, ErrInvalidInput):
		return NewAPIError(CodeBadRequest, err.Error())
	default:
		return NewAPIError(CodeInternalError, ErrInternalError.Error())
	}
}
