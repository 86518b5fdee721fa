package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/internal/server/handlers"
	"github.com/iudanet/fieldsync/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}

func testJWTConfig() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:   []byte("test-secret-key-test-secret-key-32"),
		TokenTTL: time.Hour,
	}
}

// deviceHandler проверяет device_id в контексте
func deviceHandler(t *testing.T, expectedDeviceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := handlers.GetDeviceID(r.Context())
		require.True(t, ok, "device_id should be in context")
		assert.Equal(t, expectedDeviceID, deviceID)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := handlers.GenerateDeviceToken(cfg, "tablet-7")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), cfg)(deviceHandler(t, "tablet-7"))

	for _, header := range []string{"", "tablet-7"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if header != "" {
			req.Header.Set(api.HeaderDeviceID, header)
		}

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := handlers.GenerateDeviceToken(cfg, "tablet-7")
	require.NoError(t, err)

	otherCfg := cfg
	otherCfg.Secret = []byte("another-secret-another-secret-another")
	foreign, _, err := handlers.GenerateDeviceToken(otherCfg, "tablet-7")
	require.NoError(t, err)

	expiredCfg := cfg
	expiredCfg.TokenTTL = -time.Minute
	expired, _, err := handlers.GenerateDeviceToken(expiredCfg, "tablet-7")
	require.NoError(t, err)

	tests := []struct {
		name       string
		auth       string
		deviceID   string
		wantStatus int
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", auth: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "bearer without token", auth: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "token only", auth: token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", auth: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", auth: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "expired", auth: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "device mismatch", auth: "Bearer " + token, deviceID: "tablet-8", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthMiddleware(setupTestLogger(), cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.deviceID != "" {
				req.Header.Set(api.HeaderDeviceID, tt.deviceID)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called, "handler should not be called")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
