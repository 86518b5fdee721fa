package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/fieldsync/internal/server/handlers"
	"github.com/iudanet/fieldsync/pkg/api"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LoggingMiddleware создает middleware для логирования HTTP запросов.
// Уровень зависит от статуса; пути из skipPaths (health probe) не логируются.
// Токены и тела запросов не логируются.
func LoggingMiddleware(logger *slog.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // default status
			}

			next.ServeHTTP(wrapped, r)

			logLevel := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", wrapped.written,
			}
			if deviceID := requestDeviceID(r); deviceID != "" {
				attrs = append(attrs, "device_id", deviceID)
			}

			logger.Log(r.Context(), logLevel, "HTTP request", attrs...)
		})
	}
}

// requestDeviceID берет устройство из контекста (после auth), иначе из заголовка
func requestDeviceID(r *http.Request) string {
	if deviceID, ok := handlers.GetDeviceID(r.Context()); ok {
		return deviceID
	}
	return r.Header.Get(api.HeaderDeviceID)
}
