package clouddb

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/logging"
)

type firestoreStore struct {
	projectID  string
	collection string
	client     *firestore.Client
}

func newFirestoreStore(cfg config.SyncConfig) (*firestoreStore, error) {
	if cfg.GoogleProjectID == "" {
		return nil, fmt.Errorf("firestore: sync.google_project_id is required")
	}
	return &firestoreStore{projectID: cfg.GoogleProjectID, collection: cfg.GoogleCollectionName}, nil
}

func (s *firestoreStore) Name() string { return "google" }

func (s *firestoreStore) Connect(ctx context.Context) error {
	client, err := firestore.NewClient(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("create firestore client: %w", err)
	}
	s.client = client
	logging.Sync("connected to firestore collection %s in project %s", s.collection, s.projectID)
	return nil
}

func (s *firestoreStore) Disconnect(context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *firestoreStore) Save(ctx context.Context, entries []history.Entry) error {
	if s.client == nil {
		return fmt.Errorf("firestore: not connected")
	}
	col := s.client.Collection(s.collection)
	for _, e := range entries {
		if _, err := col.Doc(e.ID).Set(ctx, e); err != nil {
			return fmt.Errorf("set history doc %s: %w", e.ID, err)
		}
	}
	logging.Sync("saved %d entries to firestore", len(entries))
	return nil
}

func (s *firestoreStore) Load(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.client == nil {
		return nil, fmt.Errorf("firestore: not connected")
	}

	var entries []history.Entry
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate history docs: %w", err)
		}
		var e history.Entry
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decode history doc %s: %w", doc.Ref.ID, err)
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
