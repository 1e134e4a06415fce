package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/craftconnect/tasktrigger/internal/platform/logger"
)

// ErrNoHandlers is returned when a task event arrives before any handler is
// registered. Acknowledging it would leave the task without a status.
var ErrNoHandlers = errors.New("no task event handlers registered")

// HandlerError records which registered handler failed for an event.
type HandlerError struct {
	Index   int
	EventID string
	TaskID  string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %d failed for task %s (event %s): %v", e.Index, e.TaskID, e.EventID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// InMemoryEventEmitter dispatches task created events to handlers registered
// in-process, in registration order.
type InMemoryEventEmitter struct {
	handlers []EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With("component", "task_event_dispatcher"),
	}
}

// RegisterHandler appends handler to the dispatch list. Nil handlers are ignored.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	if handler == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// HandlerCount returns the number of registered handlers.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// EmitEvent runs every handler for event, even after one fails, so an
// unrelated handler error never blocks status defaulting. Failures are
// returned joined, each as a *HandlerError. Dispatch stops early once ctx is
// done, since later handlers could not complete their writes.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskCreatedEvent) error {
	if event == nil || event.Task == nil {
		return fmt.Errorf("%w: event carries no task", ErrInvalidPayload)
	}

	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		"event_id", event.Metadata.EventID,
		"task_id", event.Task.ID,
		"document", event.Task.Path)

	if len(handlers) == 0 {
		log.Error("task event dropped, no handlers registered")
		return fmt.Errorf("%w: event %s", ErrNoHandlers, event.Metadata.EventID)
	}

	var errs []error
	for i, handler := range handlers {
		if err := ctx.Err(); err != nil {
			log.Warn("dispatch interrupted", "error", err, "remaining_handlers", len(handlers)-i)
			errs = append(errs, err)
			break
		}
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("task event handler failed", "error", err, "handler_index", i)
			errs = append(errs, &HandlerError{
				Index:   i,
				EventID: event.Metadata.EventID,
				TaskID:  event.Task.ID,
				Err:     err,
			})
		}
	}

	return errors.Join(errs...)
}
