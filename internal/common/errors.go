// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError represents a standard structure for API errors.
// Details carries the underlying error text and is dropped from responses in production.
type APIError struct {
	StatusCode    int      `json:"-"`
	Code          string   `json:"code,omitempty"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missingFields,omitempty"`
	Details       string   `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError: StatusCode=%d, Code=%s, Message=%s", e.StatusCode, e.Code, e.Message)
}

// Is matches APIErrors by status and code so callers can use errors.Is against the sentinels.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

func (e *APIError) clone() *APIError {
	c := *e
	if e.MissingFields != nil {
		c.MissingFields = append([]string(nil), e.MissingFields...)
	}
	return &c
}

// WithMessage returns a copy of e carrying a different message.
func (e *APIError) WithMessage(message string) *APIError {
	c := e.clone()
	c.Message = message
	return c
}

// WithCode returns a copy of e carrying a different machine-readable code.
func (e *APIError) WithCode(code string) *APIError {
	c := e.clone()
	c.Code = code
	return c
}

// WithDetails returns a copy of e carrying the given detail text.
func (e *APIError) WithDetails(details string) *APIError {
	c := e.clone()
	c.Details = details
	return c
}

// WithCause returns a copy of e whose detail is the cause's message.
func (e *APIError) WithCause(cause error) *APIError {
	if cause == nil {
		return e.clone()
	}
	return e.WithDetails(cause.Error())
}

// WithMissingFields returns a copy of e listing the absent request fields.
func (e *APIError) WithMissingFields(fields []string) *APIError {
	c := e.clone()
	c.MissingFields = append([]string(nil), fields...)
	return c
}

var (
	ErrBadRequest     = NewAPIError(http.StatusBadRequest, "", "The request is invalid.")
	ErrUnauthorized   = NewAPIError(http.StatusUnauthorized, "", "Unauthorized: No token provided")
	ErrForbidden      = NewAPIError(http.StatusForbidden, "", "Access denied")
	ErrNotFound       = NewAPIError(http.StatusNotFound, "", "The requested resource could not be found.")
	ErrRouteNotFound  = NewAPIError(http.StatusNotFound, "", "Route not found")
	ErrInternalServer = NewAPIError(http.StatusInternalServerError, "", "Something went wrong!")
	ErrTooManyRequest = NewAPIError(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please slow down.")

	// Auth gate failures.
	ErrTokenExpired       = NewAPIError(http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired")
	ErrTokenRevoked       = NewAPIError(http.StatusUnauthorized, "TOKEN_REVOKED", "Token revoked")
	ErrInvalidTokenFormat = NewAPIError(http.StatusBadRequest, "INVALID_TOKEN_FORMAT", "Invalid token format")
	ErrInvalidToken       = NewAPIError(http.StatusUnauthorized, "UNKNOWN_ERROR", "Unauthorized: Invalid token")

	ErrMissingFields = NewAPIError(http.StatusBadRequest, "", "Missing required fields")
	ErrInvalidBody   = NewAPIError(http.StatusBadRequest, "", "Invalid request body")
	ErrBodyTooLarge  = NewAPIError(http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large")
)

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewBindingAPIError converts a request binding failure into the matching APIError.
func NewBindingAPIError(err error) *APIError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return NewValidationAPIError(ve)
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrBodyTooLarge
	}
	return ErrInvalidBody.WithCause(err)
}

// NewValidationAPIError builds a 400 from validator failures, naming the offending fields.
func NewValidationAPIError(errs validator.ValidationErrors) *APIError {
	formatted := FormatValidationErrors(errs)
	msgs := make([]string, 0, len(formatted))
	for _, m := range formatted {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    strings.TrimSpace("Input validation failed. " + strings.Join(msgs, " ")),
	}
}

// FormatValidationErrors converts validator.ValidationErrors into a map keyed by field name.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMap := make(map[string]string)
	for _, e := range errs {
		field := e.Field()
		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("The %s field is required.", field)
		case "url":
			message = fmt.Sprintf("The %s field must be a valid URL.", field)
		case "min":
			message = fmt.Sprintf("The %s field must be at least %s characters long.", field, e.Param())
		case "max":
			message = fmt.Sprintf("The %s field may not be greater than %s characters.", field, e.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}
