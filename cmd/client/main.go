package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/fieldsync/internal/client/app"
	"github.com/iudanet/fieldsync/internal/client/cli"
	"github.com/iudanet/fieldsync/internal/client/iocli"
	"github.com/iudanet/fieldsync/internal/config"
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

	cfg, rest, err := config.LoadClient("fieldsync", args, config.Options{})
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.PrintUsage()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Получаем команду
	if len(rest) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := rest[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closer, err := config.NewLogger(cfg.LogLevel, cfg.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	stdio := iocli.NewStdio()

	client, err := app.New(ctx, cfg, app.Options{
		Prompter: stdio,
		Daemon:   command == "run",
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c := cli.New(stdio, client.Engine, client.Storage, client, logger)
	runErr := c.Run(ctx, command, rest[1:])

	// Close сохраняет очередь даже после прерванной команды
	if err := client.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		if errors.Is(runErr, cli.ErrUnknownCommand) {
			cli.PrintUsage()
		}
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("FieldSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
