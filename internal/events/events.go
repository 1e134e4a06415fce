package events

import (
	"context"
	"errors"
	"time"

	"github.com/craftconnect/tasktrigger/internal/domain"
)

// CloudEvent types emitted by Firestore for document creation.
const (
	TypeDocumentCreated                = "google.cloud.firestore.document.v1.created"
	TypeDocumentCreatedWithAuthContext = "google.cloud.firestore.document.v1.created.withAuthContext"
)

// Decoding errors.
var (
	// ErrUnsupportedEventType is returned for events other than document creation.
	ErrUnsupportedEventType = errors.New("unsupported event type")

	// ErrInvalidPayload is returned when the event data cannot be decoded.
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrPathMismatch is returned when a document path does not match the trigger pattern.
	ErrPathMismatch = errors.New("document path does not match pattern")
)

// Metadata describes the notification itself rather than the document.
type Metadata struct {
	// EventID is the platform's id for the notification; redeliveries reuse it.
	EventID string    `json:"event_id"`
	Type    string    `json:"type"`
	Source  string    `json:"source"`
	Time    time.Time `json:"time"`

	// Database is the Firestore database id taken from the event extensions.
	Database string `json:"database,omitempty"`

	// Params holds the wildcard values of the matched document pattern.
	Params map[string]string `json:"params"`
}

// TaskCreatedEvent represents a task document that was just created.
type TaskCreatedEvent struct {
	Metadata Metadata     `json:"metadata"`
	Task     *domain.Task `json:"task"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskCreatedEvent) error
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *TaskCreatedEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskCreatedEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the transport to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskCreatedEvent) error
}
