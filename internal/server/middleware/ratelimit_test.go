package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/fieldsync/internal/server/handlers"
)

// newManualLimiter возвращает limiter с управляемыми часами
func newManualLimiter(t *testing.T, rate int, window time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	limiter := NewRateLimiter(rate, window)
	t.Cleanup(limiter.Stop)

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	limiter, now := newManualLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("tablet-7")
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	*now = now.Add(20 * time.Second)
	allowed, retryAfter := limiter.Allow("tablet-7")
	assert.False(t, allowed)
	assert.Equal(t, 40*time.Second, retryAfter)

	allowed, _ = limiter.Allow("tablet-8")
	assert.True(t, allowed, "другое устройство имеет свой bucket")

	*now = now.Add(40 * time.Second)
	allowed, _ = limiter.Allow("tablet-7")
	assert.True(t, allowed, "новое окно восстанавливает лимит")
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	limiter, now := newManualLimiter(t, 10, time.Minute)

	limiter.Allow("a")
	limiter.Allow("b")
	*now = now.Add(90 * time.Second)
	limiter.Allow("c")

	*now = now.Add(45 * time.Second)
	limiter.cleanupOldBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "c")
}

func TestRateLimitMiddleware(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	limiter, _ := newManualLimiter(t, 1, time.Minute)
	handler := RateLimitMiddleware(limiter, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(deviceID, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/entities/task", nil)
		req.RemoteAddr = remoteAddr
		if deviceID != "" {
			req = req.WithContext(handlers.WithDeviceID(req.Context(), deviceID))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("tablet-7", "10.0.0.1:1").Code)

	blocked := send("tablet-7", "10.0.0.2:1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code, "лимит по устройству, а не по IP")
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusOK, send("", "10.0.0.1:1").Code, "без устройства ключ - IP")
	assert.Equal(t, http.StatusTooManyRequests, send("", "10.0.0.1:1").Code)

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "Rate limit exceeded")
	assert.Contains(t, logOutput, "key=tablet-7")
	assert.Contains(t, logOutput, "POST")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		expectedIP string
	}{
		{name: "X-Forwarded-For with single IP", remoteAddr: "10.0.0.1:12345", xff: "192.168.1.1", expectedIP: "192.168.1.1"},
		{name: "X-Forwarded-For with multiple IPs", remoteAddr: "10.0.0.1:12345", xff: "192.168.1.1, 10.0.0.2", expectedIP: "192.168.1.1"},
		{name: "X-Real-IP when X-Forwarded-For is empty", remoteAddr: "10.0.0.1:12345", xRealIP: "192.168.2.1", expectedIP: "192.168.2.1"},
		{name: "RemoteAddr when headers are empty", remoteAddr: "192.168.3.1:54321", expectedIP: "192.168.3.1:54321"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.expectedIP, getClientIP(req))
		})
	}
}
