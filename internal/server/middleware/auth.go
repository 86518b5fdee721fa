package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/fieldsync/internal/server/handlers"
	"github.com/iudanet/fieldsync/pkg/api"
)

// AuthMiddleware создает middleware для проверки bearer токена устройства.
// device_id из токена кладется в контекст; заголовок X-Device-ID, если задан,
// должен совпадать с ним.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				writeError(w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("Invalid Authorization header format")
				writeError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateDeviceToken(jwtConfig, parts[1])
			if err != nil {
				logger.Warn("Invalid device token", "error", err)
				writeError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if header := r.Header.Get(api.HeaderDeviceID); header != "" && header != claims.DeviceID {
				logger.Warn("Device id does not match token",
					"device_id", claims.DeviceID,
					"header_device_id", header)
				writeError(w, "device id does not match token", http.StatusForbidden)
				return
			}

			logger.Debug("Device authenticated", "device_id", claims.DeviceID)

			next.ServeHTTP(w, r.WithContext(handlers.WithDeviceID(r.Context(), claims.DeviceID)))
		})
	}
}

// writeError отправляет ошибку в формате api.ErrorResponse
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
