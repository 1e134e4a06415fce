package events

import (
	"fmt"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CreatedEventSpec describes a synthetic document created notification.
type CreatedEventSpec struct {
	ID        string
	ProjectID string
	Database  string
	Document  string
	Fields    map[string]any
	Time      time.Time
}

// NewDocumentCreatedEvent builds a protobuf-encoded Firestore created CloudEvent
// shaped like the ones Eventarc delivers. It backs local tooling and tests.
func NewDocumentCreatedEvent(spec CreatedEventSpec) (event.Event, error) {
	fields, err := MapToFields(spec.Fields)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to encode fields: %w", err)
	}

	if spec.Time.IsZero() {
		spec.Time = time.Now().UTC()
	}
	database := spec.Database
	if database == "" {
		database = "(default)"
	}
	dbName := fmt.Sprintf("projects/%s/databases/%s", spec.ProjectID, database)

	payload, err := proto.Marshal(&firestoredata.DocumentEventData{
		Value: &firestoredata.Document{
			Name:       dbName + documentsSegment + spec.Document,
			Fields:     fields,
			CreateTime: timestamppb.New(spec.Time),
			UpdateTime: timestamppb.New(spec.Time),
		},
	})
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to marshal document event data: %w", err)
	}

	e := event.New()
	e.SetID(spec.ID)
	e.SetType(TypeDocumentCreated)
	e.SetSource("//firestore.googleapis.com/" + dbName)
	e.SetSubject("documents/" + spec.Document)
	e.SetTime(spec.Time)
	e.SetExtension(ExtensionDatabase, database)
	e.SetExtension(ExtensionDocument, spec.Document)
	if err := e.SetData("application/protobuf", payload); err != nil {
		return event.Event{}, fmt.Errorf("failed to set event data: %w", err)
	}
	return e, nil
}
