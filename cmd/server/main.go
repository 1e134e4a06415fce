// Package main runs the task trigger as a standalone HTTP service that
// receives Firestore document created CloudEvents, for example from an
// Eventarc trigger targeting Cloud Run.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/craftconnect/tasktrigger/internal/app"
	"github.com/craftconnect/tasktrigger/internal/config"
	"github.com/craftconnect/tasktrigger/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	a, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := startHTTPServer(ctx, a); err != nil {
		slog.Error("server exited with error", "error", err)
		log.Fatal(err)
	}
}

// initializeApp loads configuration, sets up logging and wires the application.
func initializeApp(ctx context.Context) (*app.Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task trigger: %w", err)
	}
	return a, nil
}
