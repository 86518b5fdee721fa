package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/fieldsync/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой. data передается только при 409
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int, data map[string]any) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Data:    data,
	}
	sendJSON(logger, w, resp, statusCode)
}
