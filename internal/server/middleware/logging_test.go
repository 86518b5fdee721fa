package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/fieldsync/pkg/api"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedLevel  string
		expectedStatus int
	}{
		{name: "200 OK", method: http.MethodGet, path: "/api/v1/entities/task/42", expectedStatus: http.StatusOK, expectedLevel: "INFO"},
		{name: "201 Created", method: http.MethodPost, path: "/api/v1/entities/task", expectedStatus: http.StatusCreated, expectedLevel: "INFO"},
		{name: "409 Conflict", method: http.MethodPut, path: "/api/v1/entities/task/42", expectedStatus: http.StatusConflict, expectedLevel: "WARN"},
		{name: "500 Internal Server Error", method: http.MethodPost, path: "/api/v1/entities/task", expectedStatus: http.StatusInternalServerError, expectedLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf strings.Builder
			logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.expectedStatus)
				_, _ = w.Write([]byte("Hello, World!")) // 13 bytes
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(api.HeaderDeviceID, "tablet-7")
			req.Header.Set("Authorization", "Bearer secret-token")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "level="+tt.expectedLevel)
			assert.Contains(t, logOutput, "HTTP request")
			assert.Contains(t, logOutput, "method="+tt.method)
			assert.Contains(t, logOutput, "path="+tt.path)
			assert.Contains(t, logOutput, "device_id=tablet-7")
			assert.Contains(t, logOutput, "bytes_written=13")
			assert.Contains(t, logOutput, "duration_ms=")
			assert.NotContains(t, logOutput, "secret-token", "токены не логируются")
		})
	}
}

func TestLoggingMiddleware_SkipPaths(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := LoggingMiddleware(logger, "/api/v1/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/api/v1/health", "/api/v1/entities/task/1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	logOutput := logBuf.String()
	assert.NotContains(t, logOutput, "/api/v1/health")
	assert.Contains(t, logOutput, "/api/v1/entities/task/1")
	assert.NotContains(t, logOutput, "device_id", "без устройства поле не пишется")
}

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	n, err := rw.Write([]byte("missing"))

	assert.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, http.StatusNotFound, rw.statusCode)
	assert.Equal(t, int64(7), rw.written)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
