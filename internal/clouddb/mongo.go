package clouddb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/logging"
)

type mongoStore struct {
	uri        string
	database   string
	collection string
	client     *mongo.Client
}

func newMongoStore(cfg config.SyncConfig) (*mongoStore, error) {
	if cfg.MongoConnectionString == "" {
		return nil, fmt.Errorf("mongodb: sync.mongodb_connection_string is required")
	}
	return &mongoStore{
		uri:        cfg.MongoConnectionString,
		database:   cfg.MongoDatabaseName,
		collection: cfg.MongoCollectionName,
	}, nil
}

func (s *mongoStore) Name() string { return "mongodb" }

func (s *mongoStore) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping mongodb: %w", err)
	}
	s.client = client
	logging.Sync("connected to mongodb collection %s.%s", s.database, s.collection)
	return nil
}

func (s *mongoStore) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

// mongoRecord keys documents by the entry ID so repeated syncs upsert.
type mongoRecord struct {
	ID              string    `bson:"_id"`
	CreatedAt       time.Time `bson:"created_at"`
	NaturalLanguage string    `bson:"natural_language"`
	ShellCommand    string    `bson:"shell_command"`
	ExitCode        int       `bson:"exit_code"`
}

func (s *mongoStore) Save(ctx context.Context, entries []history.Entry) error {
	if s.client == nil {
		return fmt.Errorf("mongodb: not connected")
	}
	col := s.client.Database(s.database).Collection(s.collection)
	for _, e := range entries {
		_, err := col.ReplaceOne(ctx,
			bson.M{"_id": e.ID},
			mongoRecord{
				ID:              e.ID,
				CreatedAt:       e.CreatedAt,
				NaturalLanguage: e.NaturalLanguage,
				ShellCommand:    e.ShellCommand,
				ExitCode:        e.ExitCode,
			},
			options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("upsert history doc %s: %w", e.ID, err)
		}
	}
	logging.Sync("saved %d entries to mongodb", len(entries))
	return nil
}

func (s *mongoStore) Load(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.client == nil {
		return nil, fmt.Errorf("mongodb: not connected")
	}
	col := s.client.Database(s.database).Collection(s.collection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts = opts.SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	}
	cur, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query history docs: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var records []mongoRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode history docs: %w", err)
	}

	entries := make([]history.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, history.Entry{
			ID:              r.ID,
			CreatedAt:       r.CreatedAt,
			NaturalLanguage: r.NaturalLanguage,
			ShellCommand:    r.ShellCommand,
			ExitCode:        r.ExitCode,
		})
	}
	if limit > 0 {
		// The limited query returned newest first; flip to oldest first.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	return entries, nil
}
