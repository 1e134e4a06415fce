package firestore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/craftconnect/tasktrigger/internal/config"
	"github.com/craftconnect/tasktrigger/internal/store"
	"github.com/craftconnect/tasktrigger/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFirestoreUpdates(t *testing.T) {
	updates, err := ToFirestoreUpdates([]store.Update{
		{Field: "status", Value: "Pending"},
		{Field: "createdAt", Value: store.ServerTimestamp},
		{Field: "meta.version", Value: int64(1)},
	})
	require.NoError(t, err)
	require.Len(t, updates, 3)

	assert.Equal(t, gcfirestore.FieldPath{"status"}, updates[0].FieldPath)
	assert.Equal(t, "Pending", updates[0].Value)
	assert.Equal(t, gcfirestore.ServerTimestamp, updates[1].Value)
	assert.Equal(t, gcfirestore.FieldPath{"meta.version"}, updates[2].FieldPath, "dotted names stay a single field")
	for _, u := range updates {
		assert.Empty(t, u.Path)
	}
}

func TestToFirestoreUpdates_Invalid(t *testing.T) {
	_, err := ToFirestoreUpdates(nil)
	assert.Error(t, err)

	_, err = ToFirestoreUpdates([]store.Update{{Field: "", Value: 1}})
	assert.Error(t, err)
}

// emulatorClient connects to the Firestore emulator through NewClient.
func emulatorClient(t *testing.T) *gcfirestore.Client {
	t.Helper()
	testutils.SkipWithoutEmulator(t)

	client, err := NewClient(context.Background(), config.FirestoreConfig{
		ProjectID:  testutils.EmulatorProjectID,
		DatabaseID: gcfirestore.DefaultDatabaseID,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFirestoreTaskStore_Emulator(t *testing.T) {
	client := emulatorClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := NewFirestoreTaskStore(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("merges fields and stamps server time", func(t *testing.T) {
		path := testutils.SeedTask(t, client, map[string]any{"title": "Buy milk"})

		before := time.Now().Add(-time.Minute)
		err := s.ApplyUpdates(ctx, path, []store.Update{
			{Field: "status", Value: "Pending"},
			{Field: "createdAt", Value: store.ServerTimestamp},
		})
		require.NoError(t, err)

		snap, err := client.Doc(path).Get(ctx)
		require.NoError(t, err)
		data := snap.Data()
		assert.Equal(t, "Buy milk", data["title"])
		assert.Equal(t, "Pending", data["status"])
		createdAt, ok := data["createdAt"].(time.Time)
		require.True(t, ok, "createdAt should be a timestamp")
		assert.True(t, createdAt.After(before))
	})

	t.Run("missing document is not recreated", func(t *testing.T) {
		missing := testutils.UniqueTaskPath()
		err := s.ApplyUpdates(ctx, missing, []store.Update{{Field: "status", Value: "Pending"}})
		require.Error(t, err)
		assert.True(t, store.IsNotFoundError(err))

		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))

		_, err = client.Doc(missing).Get(ctx)
		assert.Error(t, err)
	})

	t.Run("collection path rejected", func(t *testing.T) {
		err := s.ApplyUpdates(ctx, "tasks", []store.Update{{Field: "status", Value: "Pending"}})
		assert.ErrorIs(t, err, store.ErrUpdateFailed)
	})
}

// TestFirestoreTaskStore_UnreachableBackend runs without an emulator: the
// client targets a closed port, so the write must reach the transport and fail
// there rather than being rejected locally before any RPC.
func TestFirestoreTaskStore_UnreachableBackend(t *testing.T) {
	t.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:1")

	client, err := NewClient(context.Background(), config.FirestoreConfig{
		ProjectID:  testutils.EmulatorProjectID,
		DatabaseID: gcfirestore.DefaultDatabaseID,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s := NewFirestoreTaskStore(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err = s.ApplyUpdates(ctx, "tasks/abc", []store.Update{
		{Field: "status", Value: "Pending"},
		{Field: "createdAt", Value: store.ServerTimestamp},
	})
	require.Error(t, err)

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.True(t, store.IsTransientError(err) || errors.Is(err, context.DeadlineExceeded),
		"expected a transport failure, got %v", err)
	assert.NotContains(t, err.Error(), "cannot use")
}
