package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cloudevents/sdk-go/v2/event"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/craftconnect/tasktrigger/internal/events"
	"github.com/craftconnect/tasktrigger/internal/platform/logger"
)

// ErrMalformedEvent indicates the request did not carry a valid CloudEvent.
var ErrMalformedEvent = errors.New("malformed cloudevent")

// EventReceiver decodes Firestore CloudEvents and dispatches them to the
// registered task event handlers.
type EventReceiver struct {
	decoder *events.Decoder
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewEventReceiver creates a receiver for events matching the decoder's pattern.
func NewEventReceiver(
	decoder *events.Decoder,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*EventReceiver, error) {
	if decoder == nil {
		return nil, errors.New("decoder cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &EventReceiver{
		decoder: decoder,
		emitter: emitter,
		logger:  logger.With("component", "event_receiver"),
	}, nil
}

// Receive handles one CloudEvent. Decoding failures wrap the events package
// sentinels; handler failures are returned as-is so callers can retry.
func (r *EventReceiver) Receive(ctx context.Context, e event.Event) error {
	log := logger.FromContextOrDefault(ctx, r.logger).With(
		"event_id", e.ID(),
		"event_type", e.Type(),
	)
	ctx = logger.WithLogger(ctx, log)

	taskEvent, err := r.decoder.Decode(e)
	if err != nil {
		log.Warn("rejecting event", "error", err, "source", e.Source())
		return fmt.Errorf("failed to decode event %s: %w", e.ID(), err)
	}

	log.Debug("dispatching task created event",
		"task_id", taskEvent.Task.ID,
		"document", taskEvent.Task.Path)

	return r.emitter.EmitEvent(ctx, taskEvent)
}

// ServeHTTP accepts a CloudEvent delivered over HTTP and replies with 204 on
// success, 400 when the event is unusable and 500 when handling failed.
func (r *EventReceiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	e, err := cehttp.NewEventFromHTTPRequest(req)
	if err != nil {
		RespondWithErrorAndLog(w, req, http.StatusBadRequest, "Invalid CloudEvent",
			fmt.Errorf("%w: %v", ErrMalformedEvent, err))
		return
	}
	if err := e.Validate(); err != nil {
		RespondWithErrorAndLog(w, req, http.StatusBadRequest, "Invalid CloudEvent",
			fmt.Errorf("%w: %v", ErrMalformedEvent, err))
		return
	}

	if err := r.Receive(req.Context(), *e); err != nil {
		status := StatusForError(err)
		RespondWithErrorAndLog(w, req, status, messageForStatus(status), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IsPermanent reports whether err means the event itself is unusable, so
// redelivering it can never succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrMalformedEvent) ||
		errors.Is(err, events.ErrUnsupportedEventType) ||
		errors.Is(err, events.ErrInvalidPayload) ||
		errors.Is(err, events.ErrPathMismatch)
}

// StatusForError maps a receive error to the HTTP status reported to the
// delivering platform.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusNoContent
	case IsPermanent(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageForStatus(status int) string {
	if status == http.StatusBadRequest {
		return "Event rejected"
	}
	return "Failed to process event"
}
