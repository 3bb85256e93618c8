package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"menuhub/internal/app"
	"menuhub/internal/cli"
	"menuhub/internal/config"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The console owns stdout, keep logs on stderr.
	logger := config.NewLogger(cfg.Logger).Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	// An in-memory catalog starts empty, so always seed it.
	if cfg.Seed.Enabled || cfg.Store.Driver == config.StoreMemory {
		if _, err := application.Seed(ctx, cfg.Seed); err != nil {
			return err
		}
	}

	return cli.NewConsole(application.Orders, application.Menu, logger).Run(ctx, os.Stdin, os.Stdout)
}
