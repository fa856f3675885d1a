package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodePasswordMismatch ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeEmailDomain      ErrorCode = "EMAIL_DOMAIN_NOT_ALLOWED"

	ErrCodeAuthenticationFailed  ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeTokenInvalid          ErrorCode = "TOKEN_INVALID"
	ErrCodeMissingAuthHeader     ErrorCode = "MISSING_AUTH_HEADER"
	ErrCodeMalformedAuthHeader   ErrorCode = "MALFORMED_AUTH_HEADER"
	ErrCodeTokenInvalidOrExpired ErrorCode = "TOKEN_INVALID_OR_EXPIRED"
	ErrCodeAccessDenied          ErrorCode = "ACCESS_DENIED"

	ErrCodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound  ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeRouteNotFound ErrorCode = "ROUTE_NOT_FOUND"

	ErrCodeDuplicateUsername ErrorCode = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail    ErrorCode = "DUPLICATE_EMAIL"

	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeTooManyRequests     ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so errors.Is works against the sentinel values below
// even after WithCause has been used on a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy carrying cause; sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// FieldErrors returns the field-level list of a validation error, if any.
func (e *AppError) FieldErrors() []ValidationError {
	if v, ok := e.Details.(ValidationErrors); ok {
		return v.Errors
	}
	return nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationFieldErrors([]ValidationError{
		{Field: field, Message: message, Code: string(code)},
	})
}

func NewValidationFieldErrors(fieldErrors []ValidationError) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    ValidationErrors{Errors: fieldErrors},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewExternalError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
	}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyRequests,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// Auth boundary taxonomy. Public messages never name the check that failed.
var (
	ErrAuthenticationFailed = NewUnauthorizedError("Invalid username or password", ErrCodeAuthenticationFailed)
	ErrTokenInvalid         = NewUnauthorizedError("Invalid or expired refresh token", ErrCodeTokenInvalid)
	ErrUnauthenticated      = NewUnauthorizedError("Authentication required", ErrCodeAuthenticationFailed)
	ErrAccessDenied         = NewForbiddenError("Access denied", ErrCodeAccessDenied)

	ErrMissingAuthHeader     = NewUnauthorizedError("Missing Authorization header", ErrCodeMissingAuthHeader)
	ErrMalformedAuthHeader   = NewUnauthorizedError("Invalid Authorization header format", ErrCodeMalformedAuthHeader)
	ErrTokenInvalidOrExpired = NewUnauthorizedError("Invalid or expired token", ErrCodeTokenInvalidOrExpired)

	ErrUserNotFound      = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrRoleNotFound      = NewNotFoundError("Role not found", ErrCodeRoleNotFound)
	ErrDuplicateUsername = NewConflictError("Username already exists", ErrCodeDuplicateUsername)
	ErrDuplicateEmail    = NewConflictError("Email already exists", ErrCodeDuplicateEmail)
	ErrInvalidBody       = NewValidationError("Invalid request body", ErrCodeInvalidBody)

	ErrRouteNotFound       = NewNotFoundError("No route for request path", ErrCodeRouteNotFound)
	ErrUpstreamUnavailable = NewExternalError("Upstream service unavailable", ErrCodeUpstreamUnavailable)
	ErrTooManyRequests     = NewTooManyRequestsError("Too many requests, try again later")
)

// IsAppError unwraps err until it finds an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
