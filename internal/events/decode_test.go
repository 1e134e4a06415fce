package events

import (
	"testing"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
)

func buildEvent(t *testing.T, document string, fields map[string]any) event.Event {
	t.Helper()
	e, err := NewDocumentCreatedEvent(CreatedEventSpec{
		ID:        "evt-1",
		ProjectID: "craftconnect",
		Document:  document,
		Fields:    fields,
		Time:      time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return e
}

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(MustParsePathPattern("tasks/{taskId}"))
	e := buildEvent(t, "tasks/abc123", map[string]any{"title": "Buy milk"})

	got, err := d.Decode(e)
	require.NoError(t, err)

	assert.Equal(t, "abc123", got.Task.ID)
	assert.Equal(t, "tasks/abc123", got.Task.Path)
	assert.Equal(t, map[string]any{"title": "Buy milk"}, got.Task.Fields)

	assert.Equal(t, "evt-1", got.Metadata.EventID)
	assert.Equal(t, TypeDocumentCreated, got.Metadata.Type)
	assert.Equal(t, "//firestore.googleapis.com/projects/craftconnect/databases/(default)", got.Metadata.Source)
	assert.Equal(t, "(default)", got.Metadata.Database)
	assert.Equal(t, map[string]string{"taskId": "abc123"}, got.Metadata.Params)
	assert.True(t, got.Metadata.Time.Equal(time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)))
}

func TestDecoder_DecodeJSONPayload(t *testing.T) {
	d := NewDecoder(MustParsePathPattern("tasks/{taskId}"))

	fields, err := MapToFields(map[string]any{"status": ""})
	require.NoError(t, err)
	payload, err := protojson.Marshal(&firestoredata.DocumentEventData{
		Value: &firestoredata.Document{
			Name:   "projects/craftconnect/databases/(default)/documents/tasks/json1",
			Fields: fields,
		},
	})
	require.NoError(t, err)

	e := event.New()
	e.SetID("evt-json")
	e.SetType(TypeDocumentCreated)
	e.SetSource("//firestore.googleapis.com/projects/craftconnect/databases/(default)")
	require.NoError(t, e.SetData(event.ApplicationJSON, payload))

	got, err := d.Decode(e)
	require.NoError(t, err)
	assert.Equal(t, "json1", got.Task.ID)
	assert.Equal(t, map[string]any{"status": ""}, got.Task.Fields)
}

func TestDecoder_DocumentExtensionFallback(t *testing.T) {
	d := NewDecoder(MustParsePathPattern("tasks/{taskId}"))

	payload, err := protojson.Marshal(&firestoredata.DocumentEventData{
		Value: &firestoredata.Document{},
	})
	require.NoError(t, err)

	e := event.New()
	e.SetID("evt-ext")
	e.SetType(TypeDocumentCreatedWithAuthContext)
	e.SetSource("//firestore.googleapis.com/projects/craftconnect/databases/(default)")
	e.SetExtension(ExtensionDocument, "tasks/fromext")
	require.NoError(t, e.SetData(event.ApplicationJSON, payload))

	got, err := d.Decode(e)
	require.NoError(t, err)
	assert.Equal(t, "fromext", got.Task.ID)
	assert.Empty(t, got.Task.Fields)
}

func TestDecoder_TaskIDFromPattern(t *testing.T) {
	d := NewDecoder(MustParsePathPattern("tasks/{taskId}/notes/{noteId}"))
	e := buildEvent(t, "tasks/t7/notes/n3", map[string]any{"body": "call back"})

	got, err := d.Decode(e)
	require.NoError(t, err)
	assert.Equal(t, "t7", got.Task.ID)
	assert.Equal(t, "tasks/t7/notes/n3", got.Task.Path)
	assert.Equal(t, map[string]string{"taskId": "t7", "noteId": "n3"}, got.Metadata.Params)

	fixed := NewDecoder(MustParsePathPattern("tasks/inbox"))
	got, err = fixed.Decode(buildEvent(t, "tasks/inbox", nil))
	require.NoError(t, err)
	assert.Equal(t, "inbox", got.Task.ID)
}

func TestDecoder_Errors(t *testing.T) {
	d := NewDecoder(MustParsePathPattern("tasks/{taskId}"))

	t.Run("unsupported type", func(t *testing.T) {
		e := buildEvent(t, "tasks/a", nil)
		e.SetType("google.cloud.firestore.document.v1.updated")
		_, err := d.Decode(e)
		assert.ErrorIs(t, err, ErrUnsupportedEventType)
	})

	t.Run("path outside pattern", func(t *testing.T) {
		e := buildEvent(t, "projects/a", nil)
		_, err := d.Decode(e)
		assert.ErrorIs(t, err, ErrPathMismatch)
	})

	t.Run("garbage payload", func(t *testing.T) {
		e := buildEvent(t, "tasks/a", nil)
		require.NoError(t, e.SetData("application/protobuf", []byte{0xff, 0xff, 0xff}))
		_, err := d.Decode(e)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("no data", func(t *testing.T) {
		e := event.New()
		e.SetType(TypeDocumentCreated)
		_, err := d.Decode(e)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("no document", func(t *testing.T) {
		e := buildEvent(t, "tasks/a", nil)
		payload, err := protojson.Marshal(&firestoredata.DocumentEventData{})
		require.NoError(t, err)
		require.NoError(t, e.SetData(event.ApplicationJSON, payload))
		_, err = d.Decode(e)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestDocumentPath(t *testing.T) {
	assert.Equal(t, "tasks/abc", DocumentPath("projects/p/databases/(default)/documents/tasks/abc"))
	assert.Equal(t, "tasks/abc", DocumentPath("/tasks/abc/"))
	assert.Equal(t, "", DocumentPath(""))
}
