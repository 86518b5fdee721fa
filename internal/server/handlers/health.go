package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/fieldsync/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	db      Pinger
	now     func() time.Time
	version string
}

// NewHealthHandler создает новый handler для health check.
// db может быть nil, тогда хранилище не проверяется.
func NewHealthHandler(logger *slog.Logger, db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		db:      db,
		version: version,
		now:     time.Now,
	}
}

// Health обрабатывает GET /api/v1/health
// Клиентская проверка сети считает сервер доступным только при 200
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Time:    h.now().UTC(),
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Error("Database ping failed", slog.Any("error", err))
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	sendJSON(h.logger, w, resp, status)
}
