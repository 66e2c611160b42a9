// Package clouddb syncs the local command history to an optional cloud
// backend: AWS DynamoDB, Google Cloud Firestore, Azure Cosmos DB, or MongoDB
// Atlas. All backends store the same record shape keyed by entry ID, so a
// sync is an idempotent upsert of the local entries.
package clouddb

import (
	"context"
	"fmt"

	"promptshell/internal/config"
	"promptshell/internal/history"
)

// Store is a cloud history backend.
type Store interface {
	// Name identifies the backend in log and status output.
	Name() string
	// Connect establishes the client. It must be called before Save or Load.
	Connect(ctx context.Context) error
	// Disconnect releases the client.
	Disconnect(ctx context.Context) error
	// Save upserts the given entries.
	Save(ctx context.Context, entries []history.Entry) error
	// Load returns up to limit entries, oldest first. limit <= 0 returns
	// everything the backend holds.
	Load(ctx context.Context, limit int) ([]history.Entry, error)
}

// New builds the Store selected by cfg.Provider.
func New(cfg config.SyncConfig) (Store, error) {
	switch cfg.Provider {
	case "aws", "dynamodb":
		return newDynamoStore(cfg), nil
	case "google", "firestore":
		return newFirestoreStore(cfg)
	case "azure", "cosmos":
		return newCosmosStore(cfg)
	case "mongodb", "mongo":
		return newMongoStore(cfg)
	case "":
		return nil, fmt.Errorf("no sync provider configured; set sync.provider in config.json")
	default:
		return nil, fmt.Errorf("unknown sync provider %q (want aws, google, azure, or mongodb)", cfg.Provider)
	}
}
