package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/madcrow/auth-service/internal/models"
	"github.com/madcrow/auth-service/internal/service"
	"github.com/madcrow/auth-service/internal/storage"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"invalid_email", service.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
		{"empty_password", service.ErrEmptyPassword, http.StatusBadRequest, "empty_password"},
		{"weak_password", service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
		{"email_taken", service.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{"invalid_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"invalid_token", service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{"token_expired", service.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"token_revoked", service.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
		{"not_verified", service.ErrAccountNotVerified, http.StatusForbidden, "account_not_verified"},
		{"banned", service.ErrAccountBanned, http.StatusForbidden, "account_banned"},
		{"closed", service.ErrAccountClosed, http.StatusForbidden, "account_closed"},
		{"rate_limited", service.ErrRateLimited, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{"not_found", storage.ErrNotFound, http.StatusNotFound, "not_found"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", fmt.Errorf("pgx: broken pipe"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

// TestToHTTP_WrappedError — маппинг работает и для обёрнутых ошибок
// (op-префиксы сервисного слоя).
func TestToHTTP_WrappedError(t *testing.T) {
	err := fmt.Errorf("service.auth.LoginAccount: %w", service.ErrInvalidCredentials)

	gotStatus, resp := ToHTTP(err)
	require.Equal(t, http.StatusUnauthorized, gotStatus)
	require.Equal(t, "invalid_credentials", resp.Error.Code)
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_PropagatesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Request-Id", "rid-123")
	rec := httptest.NewRecorder()

	WriteError(rec, req, service.ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "rid-123", resp.Error.RequestID)
	// Детали внутренней ошибки не утекают.
	require.Equal(t, "invalid credentials", resp.Error.Message)
}

func TestWriteRateLimited_HeadersAndBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()

	reset := int64(42)
	info := &models.RateLimitInfo{
		IsLimited:      true,
		MaxAttempts:    5,
		TimeWindow:     60,
		TimeUntilReset: &reset,
	}

	WriteRateLimited(rec, req, info)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "5", rec.Header().Get(models.HeaderRateLimitLimit))
	require.Equal(t, "0", rec.Header().Get(models.HeaderRateLimitRemaining))
	require.Equal(t, "42", rec.Header().Get(models.HeaderRateLimitReset))
	require.Equal(t, "42", rec.Header().Get(models.HeaderRetryAfter))

	var resp models.RateLimitExceededResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "error", resp.Result)
	require.Equal(t, models.RateLimitErrorCode, resp.ErrorCode)
	require.Equal(t, int64(42), resp.RetryAfter)
	require.True(t, resp.RateLimitInfo.IsLimited)
}
