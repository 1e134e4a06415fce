package firestore

import (
	"context"
	"fmt"
	"log/slog"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/craftconnect/tasktrigger/internal/platform/logger"
	"github.com/craftconnect/tasktrigger/internal/store"
)

// FirestoreTaskStore implements the store.TaskStore interface using Cloud Firestore.
type FirestoreTaskStore struct {
	client *gcfirestore.Client
	logger *slog.Logger
}

// Compile-time check
var _ store.TaskStore = (*FirestoreTaskStore)(nil)

// NewFirestoreTaskStore creates a new FirestoreTaskStore.
func NewFirestoreTaskStore(client *gcfirestore.Client, logger *slog.Logger) *FirestoreTaskStore {
	return &FirestoreTaskStore{
		client: client,
		logger: logger.With("component", "firestore_task_store"),
	}
}

// ApplyUpdates merges updates into the document at path. DocumentRef.Update
// carries an implicit exists precondition, so a document deleted since the
// event fails with NotFound instead of being recreated.
func (s *FirestoreTaskStore) ApplyUpdates(ctx context.Context, path string, updates []store.Update) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fsUpdates, err := ToFirestoreUpdates(updates)
	if err != nil {
		return store.NewStoreError("task", "update", "invalid update", err)
	}

	ref := s.client.Doc(path)
	if ref == nil {
		return store.NewStoreError("task", "update", fmt.Sprintf("%q is not a document path", path), store.ErrUpdateFailed)
	}

	result, err := ref.Update(ctx, fsUpdates)
	if err != nil {
		log.Error("failed to update task document",
			"path", path,
			"error", err)
		return store.NewStoreError("task", "update", "firestore write failed", MapError(err))
	}

	log.Debug("task document updated",
		"path", path,
		"update_time", result.UpdateTime)
	return nil
}

// ToFirestoreUpdates translates store updates, replacing the
// store.ServerTimestamp sentinel with Firestore's server timestamp transform.
func ToFirestoreUpdates(updates []store.Update) ([]gcfirestore.Update, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	out := make([]gcfirestore.Update, 0, len(updates))
	for _, u := range updates {
		if u.Field == "" {
			return nil, fmt.Errorf("update has an empty field name")
		}
		value := u.Value
		if store.IsServerTimestamp(value) {
			value = gcfirestore.ServerTimestamp
		}
		// FieldPath keeps names containing dots from being split into nested paths.
		out = append(out, gcfirestore.Update{FieldPath: gcfirestore.FieldPath{u.Field}, Value: value})
	}
	return out, nil
}
