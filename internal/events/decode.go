package events

import (
	"fmt"
	"path"
	"strings"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/craftconnect/tasktrigger/internal/domain"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Firestore CloudEvent extension attributes.
const (
	ExtensionDatabase = "database"
	ExtensionDocument = "document"
)

const documentsSegment = "/documents/"

// Decoder converts Firestore CloudEvents into TaskCreatedEvents for documents
// matching a single path pattern.
type Decoder struct {
	pattern PathPattern
}

// NewDecoder creates a Decoder accepting documents that match pattern.
func NewDecoder(pattern PathPattern) *Decoder {
	return &Decoder{pattern: pattern}
}

// Pattern returns the document pattern the decoder accepts.
func (d *Decoder) Pattern() PathPattern {
	return d.pattern
}

// Decode validates the event type, unmarshals the DocumentEventData payload
// (protobuf or JSON encoded) and resolves the document path against the pattern.
func (d *Decoder) Decode(e event.Event) (*TaskCreatedEvent, error) {
	switch e.Type() {
	case TypeDocumentCreated, TypeDocumentCreatedWithAuthContext:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEventType, e.Type())
	}

	var data firestoredata.DocumentEventData
	if err := unmarshalData(e, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	doc := data.GetValue()
	if doc == nil {
		return nil, fmt.Errorf("%w: created event carries no document", ErrInvalidPayload)
	}

	docPath := DocumentPath(doc.GetName())
	if docPath == "" {
		docPath = stringExtension(e, ExtensionDocument)
	}

	params, ok := d.pattern.Match(docPath)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not match %q", ErrPathMismatch, docPath, d.pattern)
	}

	taskID, ok := d.pattern.TaskID(params)
	if !ok {
		taskID = path.Base(docPath)
	}

	task, err := domain.NewTask(taskID, docPath, FieldsToMap(doc.GetFields()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return &TaskCreatedEvent{
		Metadata: Metadata{
			EventID:  e.ID(),
			Type:     e.Type(),
			Source:   e.Source(),
			Time:     e.Time(),
			Database: stringExtension(e, ExtensionDatabase),
			Params:   params,
		},
		Task: task,
	}, nil
}

// DocumentPath strips the "projects/{p}/databases/{d}/documents/" prefix from a
// fully qualified Firestore document name. Relative paths are returned unchanged.
func DocumentPath(name string) string {
	if i := strings.Index(name, documentsSegment); i >= 0 {
		return name[i+len(documentsSegment):]
	}
	return strings.Trim(name, "/")
}

func unmarshalData(e event.Event, data *firestoredata.DocumentEventData) error {
	raw := e.Data()
	if len(raw) == 0 {
		return fmt.Errorf("event has no data")
	}
	if strings.HasPrefix(e.DataContentType(), event.ApplicationJSON) {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(raw, data)
	}
	return proto.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(raw, data)
}

func stringExtension(e event.Event, name string) string {
	if v, ok := e.Extensions()[name]; ok {
		return fmt.Sprint(v)
	}
	return ""
}
