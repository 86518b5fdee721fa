package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/fieldsync/internal/config"
	"github.com/iudanet/fieldsync/internal/server"
	"github.com/iudanet/fieldsync/internal/server/handlers"
	"github.com/iudanet/fieldsync/internal/server/storage/sqlite"
	"github.com/iudanet/fieldsync/internal/validation"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if a == "--version" || a == "-version" {
			printVersion()
			os.Exit(0)
		}
	}

	cfg, rest, err := config.LoadServer("fieldsync-server", args, config.Options{})
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(rest) > 0 {
		if err := runCommand(cfg, rest); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Server) error {
	logger, closer, err := config.NewLogger(cfg.LogLevel, "", os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	logger.Info("FieldSync server starting",
		"version", Version,
		"addr", cfg.Addr,
		"db", cfg.DBPath,
		"rate_limit", cfg.RateLimit)

	return server.New(cfg, store, logger, Version).Run(ctx)
}

// runCommand выполняет служебные команды сервера
func runCommand(cfg *config.Server, args []string) error {
	switch args[0] {
	case "issue-token":
		if len(args) != 2 {
			return fmt.Errorf("usage: fieldsync-server issue-token <device-id>")
		}
		deviceID := args[1]
		if err := validation.ValidateEntityID(deviceID); err != nil {
			return fmt.Errorf("invalid device id: %w", err)
		}

		token, expiresAt, err := handlers.GenerateDeviceToken(handlers.JWTConfig{
			Secret:   []byte(cfg.JWTSecret),
			TokenTTL: cfg.TokenTTL.Std(),
		}, deviceID)
		if err != nil {
			return err
		}

		fmt.Println(token)
		fmt.Fprintf(os.Stderr, "Token for %s expires at %s\n", deviceID, expiresAt.Format(time.RFC3339))
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage() {
	fmt.Println("FieldSync reference server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fieldsync-server [flags]                        Serve the entity REST API")
	fmt.Println("  fieldsync-server [flags] issue-token <device>   Print a bearer token for a device")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --config PATH         YAML config file (or FIELDSYNC_CONFIG)")
	fmt.Println("  --addr ADDR           Listen address (default :8080)")
	fmt.Println("  --db PATH             SQLite database path")
	fmt.Println("  --jwt-secret SECRET   Token signing secret, at least 32 characters")
	fmt.Println("  --token-ttl DURATION  Lifetime of issued tokens")
	fmt.Println("  --max-upload-size N   Upload size limit in bytes")
	fmt.Println("  --rate-limit N        Requests per device per window, 0 disables")
	fmt.Println("  --rate-window D       Rate limit window")
	fmt.Println("  --log-level LEVEL     debug, info, warn or error")
	fmt.Println("  --version             Show version information")
}

func printVersion() {
	fmt.Printf("FieldSync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
