package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/account-service/internal/domain"
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

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts failures from the service layer to DomainError.
// This is the single translation point between the credential taxonomy
// and transport-level responses.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return NewDomainError("INVALID_INPUT", err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrEmailTaken):
		return NewDomainError("EMAIL_TAKEN", "this email is already in use", http.StatusConflict, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
	case errors.Is(err, domain.ErrInvalidCurrentPassword):
		return NewDomainError("INVALID_CURRENT_PASSWORD", "current password is incorrect", http.StatusUnauthorized, nil)
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return NewDomainError("INVALID_OR_EXPIRED_TOKEN", "invalid or expired token", http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewDomainError("NOT_FOUND", "record not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrUnavailable):
		return &DomainError{
			Code:       "UNAVAILABLE",
			Message:    "service temporarily unavailable",
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
