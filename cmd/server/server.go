package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/craftconnect/tasktrigger/internal/api"
	"github.com/craftconnect/tasktrigger/internal/app"
)

const shutdownTimeout = 10 * time.Second

// newServer builds the HTTP server for the application's receiver.
func newServer(a *app.Application) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           api.NewRouter(a.Receiver, a.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// startHTTPServer serves until SIGINT/SIGTERM or ctx cancellation, then shuts
// down gracefully and releases the application's resources.
func startHTTPServer(ctx context.Context, a *app.Application) error {
	server := newServer(a)

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	go func() {
		a.Logger.Info("Starting server", "port", a.Config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		a.Logger.Info("Shutting down server...")
	case <-serverCtx.Done():
		a.Logger.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// In-flight invocations finish their writes before Shutdown returns.
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := a.Close(); err != nil {
		a.Logger.Error("Cleanup failed", "error", err)
		return err
	}

	a.Logger.Info("Server shutdown completed")
	return nil
}
