// Package server собирает эталонный сервер удаленного хранилища:
// маршруты сущностей, health check и цепочку middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/fieldsync/internal/config"
	"github.com/iudanet/fieldsync/internal/server/handlers"
	"github.com/iudanet/fieldsync/internal/server/middleware"
	"github.com/iudanet/fieldsync/internal/server/storage"
	"github.com/iudanet/fieldsync/pkg/api"
)

// ShutdownTimeout время на завершение активных запросов при остановке
const ShutdownTimeout = 10 * time.Second

// Store хранилище сервера
type Store interface {
	storage.EntityStorage
	handlers.Pinger
}

// Server HTTP сервер сущностей
type Server struct {
	logger     *slog.Logger
	limiter    *middleware.RateLimiter
	httpServer *http.Server
}

// New создает сервер; маршруты сущностей требуют токен устройства
func New(cfg *config.Server, store Store, logger *slog.Logger, version string) *Server {
	jwtConfig := handlers.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL.Std(),
	}

	s := &Server{logger: logger}

	auth := middleware.AuthMiddleware(logger, jwtConfig)
	protect := auth
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow.Std())
		limit := middleware.RateLimitMiddleware(s.limiter, logger)
		// auth снаружи: лимит считается по устройству из токена
		protect = func(next http.Handler) http.Handler { return auth(limit(next)) }
	}

	healthPath := api.BasePath + "/health"

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, handlers.NewHealthHandler(logger, store, version).Health)
	handlers.NewEntityHandler(logger, store, cfg.MaxUploadSize).Register(mux, protect)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, healthPath)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Close освобождает фоновые ресурсы сервера
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// Run слушает адрес до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
