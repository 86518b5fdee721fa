// Package app собирает клиент синхронизации из конфигурации:
// BoltDB хранилище, кодек очереди, HTTP клиент удаленного хранилища и Engine.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/iudanet/fieldsync/internal/client/api"
	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/storage/boltdb"
	"github.com/iudanet/fieldsync/internal/client/sync"
	"github.com/iudanet/fieldsync/internal/codec"
	"github.com/iudanet/fieldsync/internal/config"
	"github.com/iudanet/fieldsync/internal/crypto"
	"github.com/iudanet/fieldsync/internal/validation"
)

// PassphraseEnv переменная окружения с парольной фразой шифрования очереди
const PassphraseEnv = "FIELDSYNC_PASSPHRASE"

// PassphrasePrompter запрашивает парольную фразу у оператора
type PassphrasePrompter interface {
	ReadPassword(prompt string) (string, error)
}

// Options параметры сборки
type Options struct {
	// Prompter используется, если парольная фраза не задана в окружении или файле
	Prompter PassphrasePrompter
	// Getenv источник переменных окружения, по умолчанию os.Getenv
	Getenv func(string) string
	// Daemon подключает проверку сети и периодический запуск синхронизации
	Daemon bool
}

// App держит собранные компоненты клиента
type App struct {
	Engine  *sync.Engine
	Queue   *queue.Manager
	Storage *boltdb.Storage
	Remote  *api.Client
	Probe   *sync.HealthProbe
	logger  *slog.Logger
}

// New открывает локальную базу, восстанавливает очередь и собирает Engine
func New(ctx context.Context, cfg *config.Client, opts Options, logger *slog.Logger) (*App, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c, err := buildCodec(ctx, cfg, store, opts)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	q := queue.NewManager(store, c, queue.Options{MaxRetries: cfg.MaxRetries}, logger)
	restored := q.Load(ctx)
	logger.Debug("Queue restored", "items", restored, "db_path", cfg.DBPath)

	remote := api.NewClient(cfg.ServerURL, cfg.AccessToken, cfg.RequestTimeout.Std())
	remote.SetDeviceID(cfg.DeviceID)

	deps := sync.Deps{
		Queue:    q,
		Remote:   remote,
		Cache:    store,
		Metadata: store,
	}

	a := &App{
		Queue:   q,
		Storage: store,
		Remote:  remote,
		logger:  logger,
	}

	if opts.Daemon {
		a.Probe = sync.NewHealthProbe(remote, cfg.HealthInterval.Std(), logger)
		deps.Network = a.Probe
		deps.Triggers = []sync.TriggerSource{sync.NewPeriodicTrigger(cfg.SyncInterval.Std(), logger)}
	}

	a.Engine = sync.NewEngine(deps, sync.Options{
		ConflictPolicy:  sync.Policy(cfg.ConflictResolution),
		BatchSize:       cfg.BatchSize,
		RetryDelay:      cfg.RetryDelay.Std(),
		RetentionWindow: cfg.RetentionWindow.Std(),
	}, logger)

	return a, nil
}

// Start запускает проверку сети и источники синхронизации (режим демона)
func (a *App) Start(ctx context.Context) error {
	if a.Probe != nil {
		if err := a.Probe.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health probe: %w", err)
		}
	}
	if err := a.Engine.Start(ctx); err != nil {
		if a.Probe != nil {
			a.Probe.Stop()
		}
		return err
	}
	return nil
}

// Close останавливает Engine, сохраняет очередь и закрывает базу
func (a *App) Close(ctx context.Context) error {
	a.Engine.Stop()
	if a.Probe != nil {
		a.Probe.Stop()
	}
	if err := a.Queue.Persist(ctx); err != nil {
		a.logger.Error("Failed to persist queue on shutdown", "error", err)
	}
	return a.Storage.Close()
}

func buildCodec(ctx context.Context, cfg *config.Client, store *boltdb.Storage, opts Options) (codec.Codec, error) {
	codecOpts := codec.Options{
		Compression: cfg.EnableCompression,
		Encryption:  cfg.EnableEncryption,
	}

	if cfg.EnableEncryption {
		passphrase, err := ReadPassphrase(cfg.PassphraseFile, opts.Getenv, opts.Prompter)
		if err != nil {
			return nil, fmt.Errorf("failed to get passphrase: %w", err)
		}
		if err := validation.ValidatePassphrase(passphrase); err != nil {
			return nil, fmt.Errorf("invalid passphrase: %w", err)
		}

		salt, err := store.GetOrCreateSalt(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load key salt: %w", err)
		}
		key, err := crypto.DerivePayloadKey(passphrase, salt)
		if err != nil {
			return nil, fmt.Errorf("failed to derive payload key: %w", err)
		}
		codecOpts.EncryptionKey = key
	}

	return codec.New(codecOpts)
}

// ReadPassphrase reads the payload passphrase with priority:
// 1. FIELDSYNC_PASSPHRASE environment variable
// 2. passphrase file
// 3. interactive prompt
func ReadPassphrase(file string, getenv func(string) string, prompter PassphrasePrompter) (string, error) {
	if v := getenv(PassphraseEnv); v != "" {
		return v, nil
	}

	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase file: %w", err)
		}
		passphrase := strings.TrimSpace(string(content))
		if passphrase == "" {
			return "", fmt.Errorf("passphrase file is empty")
		}
		return passphrase, nil
	}

	if prompter == nil {
		return "", fmt.Errorf("passphrase required: set %s or --passphrase-file", PassphraseEnv)
	}
	passphrase, err := prompter.ReadPassword("Passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if passphrase == "" {
		return "", fmt.Errorf("passphrase cannot be empty")
	}
	return passphrase, nil
}
