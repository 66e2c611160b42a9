package clouddb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/logging"
)

// dynamoRecord is the DynamoDB item shape. The entry ID is the partition key.
type dynamoRecord struct {
	ID              string `dynamodbav:"id"`
	CreatedAt       string `dynamodbav:"created_at"`
	NaturalLanguage string `dynamodbav:"natural_language"`
	ShellCommand    string `dynamodbav:"shell_command"`
	ExitCode        int    `dynamodbav:"exit_code"`
}

type dynamoStore struct {
	region string
	table  string
	client *dynamodb.Client
}

func newDynamoStore(cfg config.SyncConfig) *dynamoStore {
	return &dynamoStore{region: cfg.AWSRegion, table: cfg.AWSTableName}
}

func (s *dynamoStore) Name() string { return "aws" }

func (s *dynamoStore) Connect(ctx context.Context) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s.region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	s.client = dynamodb.NewFromConfig(awsCfg)
	logging.Sync("connected to dynamodb table %s in %s", s.table, s.region)
	return nil
}

func (s *dynamoStore) Disconnect(context.Context) error {
	s.client = nil
	return nil
}

func (s *dynamoStore) Save(ctx context.Context, entries []history.Entry) error {
	if s.client == nil {
		return fmt.Errorf("dynamodb: not connected")
	}
	for _, e := range entries {
		item, err := attributevalue.MarshalMap(dynamoRecord{
			ID:              e.ID,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339Nano),
			NaturalLanguage: e.NaturalLanguage,
			ShellCommand:    e.ShellCommand,
			ExitCode:        e.ExitCode,
		})
		if err != nil {
			return fmt.Errorf("marshal history item: %w", err)
		}
		if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item:      item,
		}); err != nil {
			return fmt.Errorf("put history item %s: %w", e.ID, err)
		}
	}
	logging.Sync("saved %d entries to dynamodb", len(entries))
	return nil
}

func (s *dynamoStore) Load(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.client == nil {
		return nil, fmt.Errorf("dynamodb: not connected")
	}

	var entries []history.Entry
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{TableName: aws.String(s.table)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan history table: %w", err)
		}
		var records []dynamoRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, fmt.Errorf("unmarshal history items: %w", err)
		}
		for _, r := range records {
			created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("parse timestamp for %s: %w", r.ID, err)
			}
			entries = append(entries, history.Entry{
				ID:              r.ID,
				CreatedAt:       created,
				NaturalLanguage: r.NaturalLanguage,
				ShellCommand:    r.ShellCommand,
				ExitCode:        r.ExitCode,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
