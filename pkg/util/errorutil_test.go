package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
)

func TestToDomainError_Taxonomy(t *testing.T) {
	cases := []struct {
		err        error
		wantCode   string
		wantStatus int
	}{
		{domain.ErrInvalidInput, "INVALID_INPUT", http.StatusBadRequest},
		{domain.ErrEmailTaken, "EMAIL_TAKEN", http.StatusConflict},
		{domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{domain.ErrInvalidCurrentPassword, "INVALID_CURRENT_PASSWORD", http.StatusUnauthorized},
		{domain.ErrInvalidOrExpiredToken, "INVALID_OR_EXPIRED_TOKEN", http.StatusBadRequest},
		{domain.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{domain.ErrUnavailable, "UNAVAILABLE", http.StatusServiceUnavailable},
		{errors.New("something unexpected"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := ToDomainError(tc.err)
		require.Equal(t, tc.wantCode, got.Code, "error %v", tc.err)
		require.Equal(t, tc.wantStatus, got.HTTPStatus, "error %v", tc.err)
	}
}

func TestToDomainError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: lookup email: connection refused", domain.ErrUnavailable)
	got := ToDomainError(wrapped)
	require.Equal(t, "UNAVAILABLE", got.Code)
	require.Equal(t, http.StatusServiceUnavailable, got.HTTPStatus)
}

func TestToDomainError_PassesThroughDomainError(t *testing.T) {
	original := NewValidationError("validation failed", map[string]any{"email": "email"})
	got := ToDomainError(original)
	require.Equal(t, "VALIDATION_FAILED", got.Code)
	require.Equal(t, map[string]any{"email": "email"}, got.Details)
}

func TestToDomainError_Nil(t *testing.T) {
	require.Nil(t, ToDomainError(nil))
}
