package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrPostNotFound is returned when a post is absent or not in the required state.
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering with an already used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned when a request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the session's role is insufficient.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed or missing input. It is raised before
// any storage call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a validation error with the given message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// RateLimitedError reports an active comment cooldown. Seconds is the whole
// number of seconds remaining, rounded up.
type RateLimitedError struct {
	Seconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many comments, retry in %d seconds", e.Seconds)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors are
// treated as storage failures.
func MapErrorToHTTP(err error) *HTTPError {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return NewHTTPError(http.StatusBadRequest, validation.Message, "VALIDATION_ERROR")
	}
	var rateLimited *RateLimitedError
	if errors.As(err, &rateLimited) {
		return NewHTTPError(http.StatusTooManyRequests, rateLimited.Error(), "RATE_LIMITED")
	}

	switch {
	case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "storage failure", "STORAGE_ERROR")
	}
}
