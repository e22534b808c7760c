package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// Auth failure codes. The gate pipeline and handlers reject with these.
const (
	CodeMissingCredentials    = "MISSING_CREDENTIALS"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeAccountBlocked        = "ACCOUNT_BLOCKED"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeSubjectNotFound       = "SUBJECT_NOT_FOUND"
	CodeInsufficientRole      = "INSUFFICIENT_ROLE"
)

// DomainError standardizes application errors.
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewMissingCredentials(message string) error {
	return NewDomainError(CodeMissingCredentials, message, http.StatusBadRequest, nil)
}

func NewInvalidCredentials(message string) error {
	return NewDomainError(CodeInvalidCredentials, message, http.StatusUnauthorized, nil)
}

func NewAccountBlocked(message string) error {
	return NewDomainError(CodeAccountBlocked, message, http.StatusForbidden, nil)
}

func NewInvalidToken(message string) error {
	return NewDomainError(CodeInvalidOrExpiredToken, message, http.StatusForbidden, nil)
}

func NewSubjectNotFound(message string) error {
	return NewDomainError(CodeSubjectNotFound, message, http.StatusNotFound, nil)
}

func NewInsufficientRole(message string) error {
	return NewDomainError(CodeInsufficientRole, message, http.StatusForbidden, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s no encontrado", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Error en el servidor",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unexpected lower-level
// failures collapse into a generic internal error so no detail leaks out.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("recurso", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Error en el servidor",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
