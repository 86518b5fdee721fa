// Package config loads client and server configuration.
// Sources, lowest to highest precedence: defaults, YAML file (--config),
// .env file, FIELDSYNC_* environment variables, command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "FIELDSYNC_"

// MaxRetriesLimit верхняя граница бюджета попыток на элемент
const MaxRetriesLimit = 100

// Duration принимает строку длительности Go ("5s") или целое число миллисекунд (5000)
type Duration time.Duration

// ParseDuration разбирает "5s" или "5000" (миллисекунды)
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use a Go duration (5s) or milliseconds (5000)", s)
	}
	return Duration(d), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Set implements flag.Value
func (d *Duration) Set(s string) error {
	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.Set(node.Value)
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Client конфигурация клиента синхронизации
type Client struct {
	ServerURL          string   `yaml:"serverURL"`
	DBPath             string   `yaml:"dbPath"`
	AccessToken        string   `yaml:"accessToken"`
	DeviceID           string   `yaml:"deviceID"`
	PassphraseFile     string   `yaml:"passphraseFile"`
	ConflictResolution string   `yaml:"conflictResolution"`
	LogLevel           string   `yaml:"logLevel"`
	LogFile            string   `yaml:"logFile"`
	MaxRetries         int      `yaml:"maxRetries"`
	BatchSize          int      `yaml:"batchSize"`
	RetryDelay         Duration `yaml:"retryDelay"`
	SyncInterval       Duration `yaml:"syncInterval"`
	RetentionWindow    Duration `yaml:"retentionWindow"`
	RequestTimeout     Duration `yaml:"requestTimeout"`
	HealthInterval     Duration `yaml:"healthInterval"`
	EnableCompression  bool     `yaml:"enableCompression"`
	EnableEncryption   bool     `yaml:"enableEncryption"`
}

// DefaultClient возвращает конфигурацию по умолчанию
func DefaultClient() *Client {
	return &Client{
		ServerURL:          "http://localhost:8080",
		DBPath:             "fieldsync.db",
		ConflictResolution: "manual",
		LogLevel:           "info",
		MaxRetries:         3,
		BatchSize:          10,
		RetryDelay:         Duration(5 * time.Second),
		SyncInterval:       Duration(30 * time.Second),
		RetentionWindow:    Duration(24 * time.Hour),
		RequestTimeout:     Duration(30 * time.Second),
		HealthInterval:     Duration(10 * time.Second),
	}
}

// Validate проверяет значения конфигурации
func (c *Client) Validate() error {
	var errs []error

	if c.ServerURL == "" {
		errs = append(errs, fmt.Errorf("serverURL cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, fmt.Errorf("dbPath cannot be empty"))
	}
	if c.MaxRetries <= 0 || c.MaxRetries > MaxRetriesLimit {
		errs = append(errs, fmt.Errorf("maxRetries must be between 1 and %d, got %d", MaxRetriesLimit, c.MaxRetries))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batchSize must be positive, got %d", c.BatchSize))
	}
	switch c.ConflictResolution {
	case "server", "client", "manual":
	default:
		errs = append(errs, fmt.Errorf("conflictResolution must be server, client or manual, got %q", c.ConflictResolution))
	}
	for name, d := range map[string]Duration{
		"retryDelay":      c.RetryDelay,
		"syncInterval":    c.SyncInterval,
		"retentionWindow": c.RetentionWindow,
		"requestTimeout":  c.RequestTimeout,
		"healthInterval":  c.HealthInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Client) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ServerURL, "server", c.ServerURL, "Server URL")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "Path to local database")
	fs.StringVar(&c.AccessToken, "token", c.AccessToken, "Device access token")
	fs.StringVar(&c.DeviceID, "device-id", c.DeviceID, "Device identifier")
	fs.StringVar(&c.PassphraseFile, "passphrase-file", c.PassphraseFile, "File containing the payload encryption passphrase")
	fs.StringVar(&c.ConflictResolution, "conflict-resolution", c.ConflictResolution, "Conflict policy: server, client or manual")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Write logs to a rotating file instead of stderr")
	fs.IntVar(&c.MaxRetries, "max-retries", c.MaxRetries, "Retry budget per item")
	fs.IntVar(&c.BatchSize, "batch-size", c.BatchSize, "Items per concurrent batch")
	fs.Var(&c.RetryDelay, "retry-delay", "Base backoff delay (5s or 5000)")
	fs.Var(&c.SyncInterval, "sync-interval", "Periodic sync interval (30s or 30000)")
	fs.Var(&c.RetentionWindow, "retention", "How long completed items are kept")
	fs.Var(&c.RequestTimeout, "request-timeout", "HTTP request timeout")
	fs.Var(&c.HealthInterval, "health-interval", "Connectivity probe interval")
	fs.BoolVar(&c.EnableCompression, "compress", c.EnableCompression, "Compress queued payloads")
	fs.BoolVar(&c.EnableEncryption, "encrypt", c.EnableEncryption, "Encrypt queued payloads")
}

func (c *Client) applyEnv(getenv func(string) string) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getenv(EnvPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *Duration) {
		if v := getenv(EnvPrefix + key); v != "" {
			if err := dst.Set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v := getenv(EnvPrefix + key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	str("SERVER_URL", &c.ServerURL)
	str("DB_PATH", &c.DBPath)
	str("ACCESS_TOKEN", &c.AccessToken)
	str("DEVICE_ID", &c.DeviceID)
	str("PASSPHRASE_FILE", &c.PassphraseFile)
	str("CONFLICT_RESOLUTION", &c.ConflictResolution)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FILE", &c.LogFile)
	num("MAX_RETRIES", &c.MaxRetries)
	num("BATCH_SIZE", &c.BatchSize)
	dur("RETRY_DELAY", &c.RetryDelay)
	dur("SYNC_INTERVAL", &c.SyncInterval)
	dur("RETENTION_WINDOW", &c.RetentionWindow)
	dur("REQUEST_TIMEOUT", &c.RequestTimeout)
	dur("HEALTH_INTERVAL", &c.HealthInterval)
	boolean("ENABLE_COMPRESSION", &c.EnableCompression)
	boolean("ENABLE_ENCRYPTION", &c.EnableEncryption)

	return errors.Join(errs...)
}

// Server конфигурация эталонного сервера
type Server struct {
	Addr      string   `yaml:"addr"`
	DBPath    string   `yaml:"dbPath"`
	JWTSecret string   `yaml:"jwtSecret"`
	LogLevel  string   `yaml:"logLevel"`
	TokenTTL  Duration `yaml:"tokenTTL"`
	// MaxUploadSize максимальный размер тела upload в байтах
	MaxUploadSize int64 `yaml:"maxUploadSize"`
	// RateLimit запросов одного устройства за RateWindow; 0 отключает ограничение
	RateLimit  int      `yaml:"rateLimit"`
	RateWindow Duration `yaml:"rateWindow"`
}

// DefaultServer возвращает конфигурацию сервера по умолчанию
func DefaultServer() *Server {
	return &Server{
		Addr:          ":8080",
		DBPath:        "fieldsync-server.db",
		LogLevel:      "info",
		TokenTTL:      Duration(30 * 24 * time.Hour),
		MaxUploadSize: 32 << 20,
		RateLimit:     600,
		RateWindow:    Duration(time.Minute),
	}
}

// Validate проверяет значения конфигурации сервера
func (s *Server) Validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, fmt.Errorf("addr cannot be empty"))
	}
	if s.DBPath == "" {
		errs = append(errs, fmt.Errorf("dbPath cannot be empty"))
	}
	if len(s.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("jwtSecret must be at least 32 characters"))
	}
	if s.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("tokenTTL must be positive, got %s", s.TokenTTL))
	}
	if s.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("maxUploadSize must be positive, got %d", s.MaxUploadSize))
	}
	if s.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rateLimit cannot be negative, got %d", s.RateLimit))
	}
	if s.RateLimit > 0 && s.RateWindow <= 0 {
		errs = append(errs, fmt.Errorf("rateWindow must be positive, got %s", s.RateWindow))
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&s.Addr, "addr", s.Addr, "HTTP listen address")
	fs.StringVar(&s.DBPath, "db", s.DBPath, "Path to SQLite database")
	fs.StringVar(&s.JWTSecret, "jwt-secret", s.JWTSecret, "Secret for signing device tokens")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level: debug, info, warn, error")
	fs.Var(&s.TokenTTL, "token-ttl", "Lifetime of issued device tokens")
	fs.Int64Var(&s.MaxUploadSize, "max-upload-size", s.MaxUploadSize, "Maximum upload body size in bytes")
	fs.IntVar(&s.RateLimit, "rate-limit", s.RateLimit, "Requests per device per rate window, 0 disables")
	fs.Var(&s.RateWindow, "rate-window", "Rate limit window")
}

func (s *Server) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvPrefix + "ADDR"); v != "" {
		s.Addr = v
	}
	if v := getenv(EnvPrefix + "SERVER_DB_PATH"); v != "" {
		s.DBPath = v
	}
	if v := getenv(EnvPrefix + "JWT_SECRET"); v != "" {
		s.JWTSecret = v
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv(EnvPrefix + "TOKEN_TTL"); v != "" {
		if err := s.TokenTTL.Set(v); err != nil {
			return fmt.Errorf("%sTOKEN_TTL: %w", EnvPrefix, err)
		}
	}
	if v := getenv(EnvPrefix + "MAX_UPLOAD_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_UPLOAD_SIZE: %w", EnvPrefix, err)
		}
		s.MaxUploadSize = n
	}
	if v := getenv(EnvPrefix + "RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err)
		}
		s.RateLimit = n
	}
	if v := getenv(EnvPrefix + "RATE_WINDOW"); v != "" {
		if err := s.RateWindow.Set(v); err != nil {
			return fmt.Errorf("%sRATE_WINDOW: %w", EnvPrefix, err)
		}
	}
	return nil
}

// source объединяет то, что умеют обе конфигурации
type source interface {
	bindFlags(fs *flag.FlagSet)
	applyEnv(getenv func(string) string) error
}

// Options параметры загрузки
type Options struct {
	// Getenv источник переменных окружения, по умолчанию os.Getenv
	Getenv func(string) string
	// Output куда flag пишет usage и ошибки
	Output io.Writer
	// DotEnv путь к .env файлу, по умолчанию ".env"; загрузка пропускается при FIELDSYNC_ENV=production
	DotEnv string
}

// LoadClient собирает конфигурацию клиента и возвращает оставшиеся аргументы (команду)
func LoadClient(name string, args []string, opts Options) (*Client, []string, error) {
	cfg := DefaultClient()
	rest, err := load(name, cfg, args, opts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rest, cfg.Validate()
}

// LoadServer собирает конфигурацию сервера и возвращает оставшиеся аргументы
func LoadServer(name string, args []string, opts Options) (*Server, []string, error) {
	cfg := DefaultServer()
	rest, err := load(name, cfg, args, opts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rest, cfg.Validate()
}

// load: первый разбор флагов находит --config, затем применяются файл и окружение,
// второй разбор накладывает явно заданные флаги поверх
func load(name string, cfg source, args []string, opts Options) ([]string, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.DotEnv == "" {
		opts.DotEnv = ".env"
	}

	var configPath string

	pre := flag.NewFlagSet(name, flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	pre.StringVar(&configPath, "config", "", "Path to YAML config file")
	// значения разбираются в копию, сам cfg пока не меняется
	switch c := cfg.(type) {
	case *Client:
		scratch := *c
		scratch.bindFlags(pre)
	case *Server:
		scratch := *c
		scratch.bindFlags(pre)
	}
	if err := pre.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return nil, err
	}

	if err := loadDotEnv(opts.DotEnv, opts.Getenv); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = opts.Getenv(EnvPrefix + "CONFIG")
	}
	if configPath != "" {
		if err := loadYAML(configPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(opts.Getenv); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(opts.Output)
	fs.String("config", configPath, "Path to YAML config file")
	cfg.bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return fs.Args(), nil
}

// loadDotEnv загружает .env, если он есть; уже заданные переменные не перезаписываются
func loadDotEnv(path string, getenv func(string) string) error {
	if getenv(EnvPrefix+"ENV") == "production" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func loadYAML(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
