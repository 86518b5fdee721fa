package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Параметры ротации лог-файла
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28
)

// ParseLevel переводит строку в slog.Level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger создает текстовый логгер. Если file задан, логи пишутся в него с ротацией,
// иначе в fallback. Возвращаемый io.Closer закрывает файл (для stderr это no-op).
func NewLogger(level, file string, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var (
		out              = fallback
		closer io.Closer = nopCloser{}
	)
	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    LogMaxSizeMB,
			MaxBackups: LogMaxBackups,
			MaxAge:     LogMaxAgeDays,
		}
		out = rotator
		closer = rotator
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
