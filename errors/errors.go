package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Validation ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// MissingCredentials creates a new AppError for a signup or login request
// without an email or password.
func MissingCredentials() *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: "Email and password are required",
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingRefreshToken creates a new AppError for a refresh request without a token.
func MissingRefreshToken() *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: "Refresh token is required",
		HTTPStatus: http.StatusBadRequest,
	}
}

// --- Resources ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// EmailTaken creates a new AppError for a signup against an existing email.
// The normalized email is deliberately not echoed into details.
func EmailTaken() *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: "Email already exists",
		HTTPStatus: http.StatusConflict,
	}
}

// --- Authentication ---

// InvalidCredentials creates a new AppError for a failed login. The same
// error is used whether the account is missing or the password is wrong,
// so callers cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: "Invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// TokenRequired creates a new AppError for a protected request without a
// bearer token.
func TokenRequired() *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: "Access token required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a new AppError for an invalid access token.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// TokenExpired creates a new AppError for an expired access token.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Token expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidRefreshToken creates a new AppError for a malformed or forged
// refresh token.
func InvalidRefreshToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid refresh token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RefreshTokenExpired creates a new AppError for an expired refresh token.
func RefreshTokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Refresh token expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a new AppError for forbidden access.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &AppError{
		Code: ErrCodeForbidden, Message: reason,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Internal ---

// Internal creates a new AppError for an internal server error. The cause
// is kept for server-side logging and never serialized to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "Internal server error",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
