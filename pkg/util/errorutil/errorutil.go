// Package errorutil carries HTTP-facing application errors and the mapping from
// lower-level failures to them.
package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// Error codes rendered in the response body.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeUpstream     = "UPSTREAM_FAILED"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError standardizes application errors. Message and Details are safe to show
// to clients; Err is for logs only.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func newError(code string, status int, message string, details map[string]any, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details, Err: cause}
}

func NewValidationError(message string, details map[string]any) error {
	return newError(CodeValidation, http.StatusBadRequest, message, details, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found", details, nil)
}

func NewUnauthorized(message string) error {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message, nil, nil)
}

func NewForbidden(message string) error {
	return newError(CodeForbidden, http.StatusForbidden, message, nil, nil)
}

func NewConflict(message string, details map[string]any) error {
	return newError(CodeConflict, http.StatusConflict, message, details, nil)
}

// NewBadGateway reports a failure of an upstream provider.
func NewBadGateway(message string, cause error) error {
	return newError(CodeUpstream, http.StatusBadGateway, message, nil, cause)
}

func NewServiceUnavailable(message string) error {
	return newError(CodeUnavailable, http.StatusServiceUnavailable, message, nil, nil)
}

func NewInternalError(cause error) error {
	return newError(CodeInternal, http.StatusInternalServerError, "internal server error", nil, cause)
}

// ToDomainError converts generic errors to DomainError. Unknown errors become a 500 whose
// message hides the cause.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.As(err, &fiberErr):
		return newError(statusCode(fiberErr.Code), fiberErr.Code, fiberErr.Message, nil, nil)
	case errors.Is(err, pgx.ErrNoRows):
		return newError(CodeNotFound, http.StatusNotFound, "resource not found", nil, err)
	default:
		return newError(CodeInternal, http.StatusInternalServerError, "internal server error", nil, err)
	}
}

// statusCode derives a code such as BAD_REQUEST from an HTTP status.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("HTTP_%d", status)
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
