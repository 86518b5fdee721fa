package sync

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reason причина запуска прохода синхронизации
type Reason string

const (
	ReasonPeriodic  Reason = "periodic"
	ReasonReconnect Reason = "reconnect"
	ReasonEnqueue   Reason = "enqueue"
	ReasonManual    Reason = "manual"
	ReasonStartup   Reason = "startup"
)

// TriggerSource emits "attempt sync" signals. Start begins delivering
// signals to fire; Stop ends delivery and releases the source.
type TriggerSource interface {
	Start(fire func(Reason)) error
	Stop()
}

// NetworkSource сообщает о состоянии сети
type NetworkSource interface {
	// Online returns the current connectivity state
	Online() bool
	// Subscribe registers fn for connectivity changes and returns an unsubscribe function
	Subscribe(fn func(online bool)) func()
}

// PeriodicTrigger срабатывает каждые interval через cron расписание "@every"
type PeriodicTrigger struct {
	cron     *cron.Cron
	logger   *slog.Logger
	interval time.Duration
	mu       sync.Mutex
}

// NewPeriodicTrigger создает PeriodicTrigger. cron округляет interval меньше секунды до секунды.
func NewPeriodicTrigger(interval time.Duration, logger *slog.Logger) *PeriodicTrigger {
	return &PeriodicTrigger{interval: interval, logger: logger}
}

func (t *PeriodicTrigger) Start(fire func(Reason)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cron != nil {
		return fmt.Errorf("periodic trigger already started")
	}
	if t.interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", t.interval)
	}

	c := cron.New()
	schedule := "@every " + t.interval.String()
	if _, err := c.AddFunc(schedule, func() { fire(ReasonPeriodic) }); err != nil {
		return fmt.Errorf("failed to schedule periodic sync %q: %w", schedule, err)
	}
	c.Start()
	t.cron = c

	t.logger.Info("Periodic sync scheduled", "interval", t.interval)
	return nil
}

// Stop останавливает расписание и ждет завершения уже запущенного вызова fire
func (t *PeriodicTrigger) Stop() {
	t.mu.Lock()
	c := t.cron
	t.cron = nil
	t.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// NetworkTrigger converts offline -> online transitions of a NetworkSource
// into ReasonReconnect signals.
type NetworkTrigger struct {
	source      NetworkSource
	unsubscribe func()
	online      bool
	mu          sync.Mutex
}

// NewNetworkTrigger создает адаптер сетевых событий
func NewNetworkTrigger(source NetworkSource) *NetworkTrigger {
	return &NetworkTrigger{source: source}
}

func (t *NetworkTrigger) Start(fire func(Reason)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unsubscribe != nil {
		return fmt.Errorf("network trigger already started")
	}

	t.online = t.source.Online()
	t.unsubscribe = t.source.Subscribe(func(online bool) {
		t.mu.Lock()
		reconnected := online && !t.online
		t.online = online
		t.mu.Unlock()

		if reconnected {
			fire(ReasonReconnect)
		}
	})
	return nil
}

func (t *NetworkTrigger) Stop() {
	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
