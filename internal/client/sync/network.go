package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iudanet/fieldsync/pkg/api"
)

// DefaultProbeTimeout таймаут одной проверки доступности сервера
const DefaultProbeTimeout = 5 * time.Second

// HealthChecker проверяет доступность удаленного хранилища
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// HealthProbe is a NetworkSource that polls the remote health endpoint and
// reports connectivity changes. The first probe runs in Start.
type HealthProbe struct {
	checker     HealthChecker
	cron        *cron.Cron
	logger      *slog.Logger
	subscribers map[int]func(bool)
	interval    time.Duration
	timeout     time.Duration
	nextID      int
	online      bool
	mu          sync.Mutex
}

// NewHealthProbe создает HealthProbe; до первой проверки сеть считается недоступной
func NewHealthProbe(checker HealthChecker, interval time.Duration, logger *slog.Logger) *HealthProbe {
	timeout := DefaultProbeTimeout
	if interval > 0 && interval < timeout {
		timeout = interval
	}
	return &HealthProbe{
		checker:     checker,
		interval:    interval,
		timeout:     timeout,
		logger:      logger,
		subscribers: make(map[int]func(bool)),
	}
}

// Start runs one probe and schedules the next ones every interval.
func (p *HealthProbe) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("health interval must be positive, got %s", p.interval)
	}

	p.Probe(ctx)

	c := cron.New()
	schedule := "@every " + p.interval.String()
	if _, err := c.AddFunc(schedule, func() { p.Probe(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule health probe %q: %w", schedule, err)
	}

	p.mu.Lock()
	if p.cron != nil {
		p.mu.Unlock()
		return fmt.Errorf("health probe already started")
	}
	p.cron = c
	p.mu.Unlock()

	c.Start()
	return nil
}

// Stop останавливает опрос
func (p *HealthProbe) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c != nil {
		c.Stop()
	}
}

// Probe checks the remote once, updates the state and notifies subscribers
// on a change. Returns the new state.
func (p *HealthProbe) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.checker.Health(probeCtx)
	online := err == nil

	p.mu.Lock()
	changed := online != p.online
	p.online = online
	var fns []func(bool)
	if changed {
		for _, fn := range p.subscribers {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	if changed {
		if online {
			p.logger.Info("Remote store is reachable")
		} else {
			p.logger.Warn("Remote store is unreachable", "error", err)
		}
		for _, fn := range fns {
			fn(online)
		}
	}

	return online
}

func (p *HealthProbe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *HealthProbe) Subscribe(fn func(online bool)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}
