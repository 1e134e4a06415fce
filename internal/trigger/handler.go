package trigger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/craftconnect/tasktrigger/internal/domain"
	"github.com/craftconnect/tasktrigger/internal/events"
	"github.com/craftconnect/tasktrigger/internal/platform/logger"
	"github.com/craftconnect/tasktrigger/internal/store"
)

// Outcome reports what a single invocation did.
type Outcome string

const (
	// OutcomeDefaulted means the default status patch was written.
	OutcomeDefaulted Outcome = "defaulted"
	// OutcomeSkipped means the task already had a status and nothing was written.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the patch was attempted and the write failed.
	OutcomeFailed Outcome = "failed"
)

// ErrorReporter receives write failures in addition to the returned error.
type ErrorReporter interface {
	CaptureError(ctx context.Context, err error, tags map[string]string)
}

// Config holds the handler's behavioral settings.
type Config struct {
	DefaultStatus domain.TaskStatus
	Policy        domain.StatusPolicy
}

// DefaultConfig mirrors the behavior of clients that never send a status.
func DefaultConfig() Config {
	return Config{
		DefaultStatus: domain.StatusPending,
		Policy:        domain.StatusPolicyFalsy,
	}
}

// TaskCreationHandler ensures every created task has a status and a creation timestamp.
type TaskCreationHandler struct {
	store    store.TaskStore
	config   Config
	reporter ErrorReporter
	logger   *slog.Logger
}

// Option configures optional TaskCreationHandler collaborators.
type Option func(*TaskCreationHandler)

// WithErrorReporter forwards write failures to r.
func WithErrorReporter(r ErrorReporter) Option {
	return func(h *TaskCreationHandler) {
		h.reporter = r
	}
}

// NewTaskCreationHandler creates a handler writing through taskStore.
func NewTaskCreationHandler(
	taskStore store.TaskStore,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) (*TaskCreationHandler, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.DefaultStatus == "" {
		return nil, fmt.Errorf("default status cannot be empty")
	}
	if _, err := domain.ParseStatusPolicy(string(cfg.Policy)); err != nil {
		return nil, err
	}

	h := &TaskCreationHandler{
		store:  taskStore,
		config: cfg,
		logger: logger.With("component", "task_creation_handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// DefaultStatusPatch returns the partial update applied to tasks without a status.
func DefaultStatusPatch(status domain.TaskStatus) []store.Update {
	return []store.Update{
		{Field: domain.FieldStatus, Value: string(status)},
		{Field: domain.FieldCreatedAt, Value: store.ServerTimestamp},
	}
}

// Plan decides, without any I/O, which updates a created task needs.
// A nil result means no write.
func (h *TaskCreationHandler) Plan(task *domain.Task) []store.Update {
	if !task.NeedsDefaultStatus(h.config.Policy) {
		return nil
	}
	return DefaultStatusPatch(h.config.DefaultStatus)
}

// Handle processes one creation notification. It returns only after any write
// it issued has completed, and returns the write's error unchanged in kind.
func (h *TaskCreationHandler) Handle(
	ctx context.Context,
	task *domain.Task,
	meta events.Metadata,
) (Outcome, error) {
	log := logger.FromContextOrDefault(ctx, h.logger)

	log.InfoContext(ctx, "new task created",
		"event_id", meta.EventID,
		"task_id", task.ID)
	log.InfoContext(ctx, "task data",
		"task_id", task.ID,
		"fields", task.Fields)

	updates := h.Plan(task)
	if updates == nil {
		log.DebugContext(ctx, "task already has a status, skipping", "task_id", task.ID)
		return OutcomeSkipped, nil
	}

	if err := h.store.ApplyUpdates(ctx, task.Path, updates); err != nil {
		log.ErrorContext(ctx, "failed to apply default status",
			"error", err,
			"task_id", task.ID,
			"event_id", meta.EventID)
		if h.reporter != nil {
			h.reporter.CaptureError(ctx, err, map[string]string{
				"task_id":  task.ID,
				"event_id": meta.EventID,
			})
		}
		return OutcomeFailed, fmt.Errorf("failed to apply default status to task %s: %w", task.ID, err)
	}

	log.InfoContext(ctx, "default status applied",
		"task_id", task.ID,
		"status", h.config.DefaultStatus)
	return OutcomeDefaulted, nil
}

// HandleEvent implements events.EventHandler.
func (h *TaskCreationHandler) HandleEvent(ctx context.Context, event *events.TaskCreatedEvent) error {
	if event == nil || event.Task == nil {
		return fmt.Errorf("%w: event carries no task", events.ErrInvalidPayload)
	}
	_, err := h.Handle(ctx, event.Task, event.Metadata)
	return err
}
