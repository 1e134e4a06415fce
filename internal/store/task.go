package store

import "context"

// Update names a single field to set in a partial document update.
// Fields not named by any Update are left untouched.
type Update struct {
	Field string
	Value any
}

type serverTimestamp struct{}

func (serverTimestamp) String() string { return "<server timestamp>" }

// ServerTimestamp is a sentinel Update value asking the store to substitute
// its own commit time for the field.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// TaskStore defines the writes the trigger performs against task records.
// Version: 1.0
type TaskStore interface {
	// ApplyUpdates merges the given fields into the existing document at path.
	// The write is atomic for the single document.
	// Returns ErrTaskNotFound if the document no longer exists.
	ApplyUpdates(ctx context.Context, path string, updates []Update) error
}
