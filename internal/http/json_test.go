package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/adgate-io/adgate/internal/errors"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{code: apperrors.ErrCodeInvalidCredentials, want: http.StatusUnauthorized},
		{code: apperrors.ErrCodeExpired, want: http.StatusUnauthorized},
		{code: apperrors.ErrCodeForbiddenNetwork, want: http.StatusForbidden},
		{code: apperrors.ErrCodeUnknownUser, want: http.StatusNotFound},
		{code: apperrors.ErrCodeParseFailure, want: http.StatusBadRequest},
		{code: apperrors.ErrCodeNotImplemented, want: http.StatusNotImplemented},
		{code: apperrors.ErrCodeDirectoryUnavailable, want: http.StatusServiceUnavailable},
		{code: apperrors.ErrCodeInternal, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForCode(tt.code))
		})
	}
}

func TestWriteAppError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.Wrap(errors.New("dial tcp 10.0.0.9:389: connection refused"),
		apperrors.ErrCodeDirectoryUnavailable, "directory unavailable")
	WriteAppError(rec, err)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "directory_unavailable")
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}

func TestWriteAppError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal")
	assert.NotContains(t, rec.Body.String(), "boom")
}
