// Package reporting forwards handler failures to Sentry. A Reporter built
// without a DSN is a no-op, so callers never need to check for one.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds the Sentry client settings.
type Config struct {
	DSN         string
	Environment string
	Release     string
	// Module is attached to every event as the "module" tag.
	Module string
	// Transport overrides the HTTP transport; used by tests.
	Transport sentry.Transport
}

// Reporter captures errors on a dedicated Sentry hub.
type Reporter struct {
	hub *sentry.Hub
}

// New initializes a Sentry client for cfg. With an empty DSN it returns a
// Reporter that drops everything.
func New(cfg Config) (*Reporter, error) {
	if cfg.DSN == "" {
		return &Reporter{}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		AttachStacktrace: true,
		Transport:        cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	hub := sentry.NewHub(client, sentry.NewScope())
	if cfg.Module != "" {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("module", cfg.Module)
		})
	}
	return &Reporter{hub: hub}, nil
}

// Enabled reports whether errors are actually sent anywhere.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// CaptureError sends err to Sentry with the given tags.
func (r *Reporter) CaptureError(ctx context.Context, err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		scope.SetContext("invocation", sentry.Context{"cancelled": ctx.Err() != nil})
		r.hub.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
