// Command bigbrain runs the study application's persistence core. It
// bootstraps the local data directory and embedded database, then serves
// UI commands over stdin/stdout until the stream closes or the process is
// signalled.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bigbrain/internal/assets"
	"bigbrain/internal/bridge"
	"bigbrain/internal/config"
	"bigbrain/internal/platform/logger"
	"bigbrain/internal/platform/sqlite"
)

// version is the application version reported by the get_version command.
// Overridable at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal startup failure", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	log.Info("starting bigbrain",
		slog.String("version", version),
		slog.String("data_dir", cfg.Storage.DataDir))

	gateway, err := sqlite.Open(cfg.DatabasePath(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := gateway.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	images, err := assets.NewImageStore(cfg.ImagesDir(), log)
	if err != nil {
		return err
	}

	decks := sqlite.NewDeckStore(gateway, log)
	questions := sqlite.NewQuestionStore(gateway, log)

	b := bridge.New(decks, questions, images, version, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("bridge terminated: %w", err)
	}

	log.Info("shutting down")
	return nil
}
