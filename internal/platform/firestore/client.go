package firestore

import (
	"context"
	"fmt"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/craftconnect/tasktrigger/internal/config"
)

// NewClient opens a Firestore client for cfg. An empty project id is detected
// from the environment; FIRESTORE_EMULATOR_HOST is honored by the SDK.
func NewClient(ctx context.Context, cfg config.FirestoreConfig) (*gcfirestore.Client, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = gcfirestore.DetectProjectID
	}

	var (
		client *gcfirestore.Client
		err    error
	)
	if cfg.DatabaseID == "" || cfg.DatabaseID == gcfirestore.DefaultDatabaseID {
		client, err = gcfirestore.NewClient(ctx, projectID)
	} else {
		client, err = gcfirestore.NewClientWithDatabase(ctx, projectID, cfg.DatabaseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
