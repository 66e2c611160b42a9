package clouddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptshell/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("aws", func(t *testing.T) {
		s, err := New(config.SyncConfig{Provider: "aws", AWSRegion: "eu-west-1", AWSTableName: "t"})
		require.NoError(t, err)
		assert.Equal(t, "aws", s.Name())
	})

	t.Run("google requires a project", func(t *testing.T) {
		_, err := New(config.SyncConfig{Provider: "google"})
		assert.Error(t, err)

		s, err := New(config.SyncConfig{Provider: "firestore", GoogleProjectID: "p", GoogleCollectionName: "c"})
		require.NoError(t, err)
		assert.Equal(t, "google", s.Name())
	})

	t.Run("azure requires endpoint and key", func(t *testing.T) {
		_, err := New(config.SyncConfig{Provider: "azure"})
		assert.Error(t, err)

		s, err := New(config.SyncConfig{
			Provider:      "cosmos",
			AzureEndpoint: "https://acct.documents.azure.com",
			AzureKey:      "key",
		})
		require.NoError(t, err)
		assert.Equal(t, "azure", s.Name())
	})

	t.Run("mongodb requires a connection string", func(t *testing.T) {
		_, err := New(config.SyncConfig{Provider: "mongodb"})
		assert.Error(t, err)

		s, err := New(config.SyncConfig{Provider: "mongo", MongoConnectionString: "mongodb://localhost"})
		require.NoError(t, err)
		assert.Equal(t, "mongodb", s.Name())
	})

	t.Run("unconfigured and unknown providers error", func(t *testing.T) {
		_, err := New(config.SyncConfig{})
		assert.Error(t, err)
		_, err = New(config.SyncConfig{Provider: "carrier-pigeon"})
		assert.Error(t, err)
	})
}

func TestBackendsRequireConnect(t *testing.T) {
	d := newDynamoStore(config.SyncConfig{AWSRegion: "us-east-1", AWSTableName: "t"})
	_, err := d.Load(t.Context(), 10)
	assert.Error(t, err)
	assert.Error(t, d.Save(t.Context(), nil))
}
