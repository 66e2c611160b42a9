package clouddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/logging"
)

type cosmosStore struct {
	endpoint  string
	key       string
	database  string
	container string
	client    *azcosmos.ContainerClient
}

func newCosmosStore(cfg config.SyncConfig) (*cosmosStore, error) {
	if cfg.AzureEndpoint == "" || cfg.AzureKey == "" {
		return nil, fmt.Errorf("cosmos: sync.azure_endpoint and sync.azure_key are required")
	}
	return &cosmosStore{
		endpoint:  cfg.AzureEndpoint,
		key:       cfg.AzureKey,
		database:  cfg.AzureDatabaseName,
		container: cfg.AzureContainerName,
	}, nil
}

func (s *cosmosStore) Name() string { return "azure" }

func (s *cosmosStore) Connect(context.Context) error {
	cred, err := azcosmos.NewKeyCredential(s.key)
	if err != nil {
		return fmt.Errorf("cosmos credential: %w", err)
	}
	client, err := azcosmos.NewClientWithKey(s.endpoint, cred, nil)
	if err != nil {
		return fmt.Errorf("create cosmos client: %w", err)
	}
	container, err := client.NewContainer(s.database, s.container)
	if err != nil {
		return fmt.Errorf("open cosmos container: %w", err)
	}
	s.client = container
	logging.Sync("connected to cosmos container %s/%s", s.database, s.container)
	return nil
}

func (s *cosmosStore) Disconnect(context.Context) error {
	s.client = nil
	return nil
}

func (s *cosmosStore) Save(ctx context.Context, entries []history.Entry) error {
	if s.client == nil {
		return fmt.Errorf("cosmos: not connected")
	}
	for _, e := range entries {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal history item: %w", err)
		}
		pk := azcosmos.NewPartitionKeyString(e.ID)
		if _, err := s.client.UpsertItem(ctx, pk, body, nil); err != nil {
			return fmt.Errorf("upsert history item %s: %w", e.ID, err)
		}
	}
	logging.Sync("saved %d entries to cosmos", len(entries))
	return nil
}

func (s *cosmosStore) Load(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.client == nil {
		return nil, fmt.Errorf("cosmos: not connected")
	}

	var entries []history.Entry
	pager := s.client.NewQueryItemsPager("SELECT * FROM c", azcosmos.NewPartitionKey(), nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			var respErr *azcore.ResponseError
			if errors.As(err, &respErr) {
				return nil, fmt.Errorf("query history items: %s (%d)", respErr.ErrorCode, respErr.StatusCode)
			}
			return nil, fmt.Errorf("query history items: %w", err)
		}
		for _, item := range page.Items {
			var e history.Entry
			if err := json.Unmarshal(item, &e); err != nil {
				return nil, fmt.Errorf("decode history item: %w", err)
			}
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
