package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with an email that is already stored.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUserNotFound is returned when the authenticated identity no longer resolves to a user.
	ErrUserNotFound = errors.New("user not found")
	// ErrThreadNotFound is returned when no thread matches the caller and thread id.
	ErrThreadNotFound = errors.New("thread not found")
	// ErrUnauthorized is returned for missing, malformed or expired bearer tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream is returned when the completion service fails.
	ErrUpstream = errors.New("failed to get response from AI")
)

// ValidationError describes malformed input with per-field detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid input"
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    string
	Fields     map[string]string
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
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
		Fields:  e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 whose details carry the underlying message.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		httpErr := NewHTTPError(http.StatusBadRequest, validationErr.Error(), "INVALID_INPUT")
		httpErr.Fields = validationErr.Fields
		return httpErr
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrThreadNotFound):
		return NewHTTPError(http.StatusNotFound, ErrThreadNotFound.Error(), "THREAD_NOT_FOUND")
	case errors.Is(err, ErrUpstream):
		httpErr := NewHTTPError(http.StatusBadGateway, ErrUpstream.Error(), "UPSTREAM_ERROR")
		httpErr.Details = err.Error()
		return httpErr
	default:
		httpErr := NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		if err != nil {
			httpErr.Details = err.Error()
		}
		return httpErr
	}
}
