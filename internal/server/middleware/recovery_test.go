package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/pkg/api"
)

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		handler http.HandlerFunc
		name    string
	}{
		{name: "panic with string", handler: func(w http.ResponseWriter, r *http.Request) { panic("something went wrong") }},
		{name: "panic with error", handler: func(w http.ResponseWriter, r *http.Request) { panic(errors.New("nil map")) }},
		{name: "panic with custom type", handler: func(w http.ResponseWriter, r *http.Request) { panic(struct{ msg string }{"critical"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf strings.Builder
			logger := slog.New(slog.NewTextHandler(&logBuf, nil))

			handler := RecoveryMiddleware(logger)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/entities/task", nil)
			w := httptest.NewRecorder()

			assert.NotPanics(t, func() { handler.ServeHTTP(w, req) })
			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "internal server error", resp.Message)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "Panic recovered")
			assert.Contains(t, logOutput, "stack=")
			assert.Contains(t, logOutput, "/api/v1/entities/task")
		})
	}
}

func TestRecoveryMiddleware_PassesThrough(t *testing.T) {
	handler := RecoveryMiddleware(setupTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())
}

func TestRecoveryMiddleware_AbortHandler(t *testing.T) {
	handler := RecoveryMiddleware(setupTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	w := httptest.NewRecorder()
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestMiddlewareChain(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := RecoveryMiddleware(logger)(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chain", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logBuf.String(), "Panic recovered")
}
