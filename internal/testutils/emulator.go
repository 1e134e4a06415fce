package testutils

import (
	"context"
	"testing"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/craftconnect/tasktrigger/internal/ciutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// EmulatorProjectID is the project used for every emulator-backed test.
const EmulatorProjectID = "tasktrigger-test"

// SkipWithoutEmulator skips t when no Firestore emulator is configured, or
// fails it when the emulator is required.
func SkipWithoutEmulator(t *testing.T) {
	t.Helper()
	if !ciutil.ShouldSkipEmulatorTest() {
		return
	}
	if ciutil.EmulatorRequired() {
		t.Fatalf("%s is required but %s is not set",
			ciutil.EnvRequireEmulator, ciutil.EnvFirestoreEmulatorHost)
	}
	t.Skipf("%s not set, skipping emulator test", ciutil.EnvFirestoreEmulatorHost)
}

// EmulatorClient connects to the Firestore emulator and closes the client
// when the test ends.
func EmulatorClient(t *testing.T) *gcfirestore.Client {
	t.Helper()
	SkipWithoutEmulator(t)

	client, err := gcfirestore.NewClient(context.Background(), EmulatorProjectID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// UniqueTaskPath returns a fresh document path in the tasks collection so
// tests never collide on shared emulator state.
func UniqueTaskPath() string {
	return "tasks/" + uuid.NewString()
}

// SeedTask creates a document at a fresh task path and deletes it when the
// test ends.
func SeedTask(t *testing.T, client *gcfirestore.Client, fields map[string]any) string {
	t.Helper()
	path := UniqueTaskPath()
	_, err := client.Doc(path).Set(context.Background(), fields)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = client.Doc(path).Delete(context.Background()) })
	return path
}
