// Package app assembles the task trigger from configuration. Both the
// self-hosted HTTP server and the Cloud Functions entry point build the same
// object graph through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/craftconnect/tasktrigger/internal/api"
	"github.com/craftconnect/tasktrigger/internal/config"
	"github.com/craftconnect/tasktrigger/internal/domain"
	"github.com/craftconnect/tasktrigger/internal/events"
	"github.com/craftconnect/tasktrigger/internal/platform/firestore"
	"github.com/craftconnect/tasktrigger/internal/platform/reporting"
	"github.com/craftconnect/tasktrigger/internal/store"
	"github.com/craftconnect/tasktrigger/internal/trigger"
)

// Module is the tag attached to reported errors.
const Module = "tasktrigger"

const flushTimeout = 2 * time.Second

// Application holds the wired components and the resources they own.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Handler  *trigger.TaskCreationHandler
	Emitter  *events.InMemoryEventEmitter
	Receiver *api.EventReceiver

	reporter *reporting.Reporter
	client   *gcfirestore.Client
}

// New connects to Firestore and Sentry per cfg and wires the receiver.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	reporter, err := reporting.New(reporting.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Module:      Module,
	})
	if err != nil {
		return nil, err
	}

	client, err := firestore.NewClient(ctx, cfg.Firestore)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	a, err := Build(cfg, firestore.NewFirestoreTaskStore(client, logger), reporter, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	a.client = client

	logger.Info("task trigger initialized",
		"project_id", cfg.Firestore.ProjectID,
		"database_id", cfg.Firestore.DatabaseID,
		"document_pattern", cfg.Trigger.DocumentPattern,
		"status_policy", cfg.Trigger.StatusPolicy,
		"error_reporting", reporter.Enabled())
	return a, nil
}

// Build wires the handler chain around an existing store. reporter may be nil.
func Build(
	cfg *config.Config,
	taskStore store.TaskStore,
	reporter *reporting.Reporter,
	logger *slog.Logger,
) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	pattern, err := events.ParsePathPattern(cfg.Trigger.DocumentPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid document pattern: %w", err)
	}
	policy, err := domain.ParseStatusPolicy(cfg.Trigger.StatusPolicy)
	if err != nil {
		return nil, err
	}

	var opts []trigger.Option
	if reporter.Enabled() {
		opts = append(opts, trigger.WithErrorReporter(reporter))
	}
	handler, err := trigger.NewTaskCreationHandler(taskStore, trigger.Config{
		DefaultStatus: domain.TaskStatus(cfg.Trigger.DefaultStatus),
		Policy:        policy,
	}, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create task creation handler: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(handler)

	receiver, err := api.NewEventReceiver(events.NewDecoder(pattern), emitter, logger)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Handler:  handler,
		Emitter:  emitter,
		Receiver: receiver,
		reporter: reporter,
	}, nil
}

// Close flushes pending error reports and releases the store client.
func (a *Application) Close() error {
	if a.reporter.Enabled() {
		a.reporter.Flush(flushTimeout)
	}
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			return fmt.Errorf("failed to close firestore client: %w", err)
		}
	}
	return nil
}
