// Package tasktrigger is the Cloud Functions entry point. It registers
// OnTaskCreated as a CloudEvent function fired for documents created under
// the configured pattern (tasks/{taskId} by default).
package tasktrigger

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/craftconnect/tasktrigger/internal/api"
	"github.com/craftconnect/tasktrigger/internal/app"
	"github.com/craftconnect/tasktrigger/internal/config"
	"github.com/craftconnect/tasktrigger/internal/platform/logger"
)

// FunctionName is the entry point name used at deploy time.
const FunctionName = "OnTaskCreated"

type eventReceiver interface {
	Receive(ctx context.Context, e event.Event) error
}

// Process-wide state. The receiver is built on the first invocation and kept
// once construction succeeds; a failed attempt is retried by the next one.
var (
	initMu        sync.Mutex
	receiver      eventReceiver
	buildReceiver = newReceiver
)

func init() {
	functions.CloudEvent(FunctionName, OnTaskCreated)
}

// OnTaskCreated defaults the status of a newly created task document. A
// returned error marks the invocation failed so the platform can retry it.
// Events that can never succeed (wrong type, undecodable, outside the
// document pattern) are logged and acknowledged instead.
func OnTaskCreated(ctx context.Context, e event.Event) error {
	r, err := getReceiver(ctx)
	if err != nil {
		return err
	}

	err = r.Receive(ctx, e)
	if err != nil && api.IsPermanent(err) {
		logger.FromContext(ctx).Error("dropping undeliverable event",
			"event_id", e.ID(),
			"event_type", e.Type(),
			"error", err)
		return nil
	}
	return err
}

func getReceiver(ctx context.Context) (eventReceiver, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if receiver != nil {
		return receiver, nil
	}
	r, err := buildReceiver(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	receiver = r
	return receiver, nil
}

func newReceiver(ctx context.Context) (eventReceiver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	// The instance owns the client until it is recycled; it is never closed here.
	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task trigger: %w", err)
	}
	return a.Receiver, nil
}
