package config

// SyncConfig configures the optional cloud history sync. Provider selects the
// backend: aws, google, azure, or mongodb.
type SyncConfig struct {
	Provider string `json:"provider,omitempty"`

	// AWS DynamoDB
	AWSRegion    string `json:"aws_region,omitempty"`
	AWSTableName string `json:"aws_table_name,omitempty"`

	// Google Cloud Firestore
	GoogleProjectID      string `json:"google_project_id,omitempty"`
	GoogleCollectionName string `json:"google_collection_name,omitempty"`

	// Azure Cosmos DB
	AzureEndpoint      string `json:"azure_endpoint,omitempty"`
	AzureKey           string `json:"azure_key,omitempty"`
	AzureDatabaseName  string `json:"azure_database_name,omitempty"`
	AzureContainerName string `json:"azure_container_name,omitempty"`

	// MongoDB Atlas
	MongoConnectionString string `json:"mongodb_connection_string,omitempty"`
	MongoDatabaseName     string `json:"mongodb_database_name,omitempty"`
	MongoCollectionName   string `json:"mongodb_collection_name,omitempty"`
}

// GetSyncConfig returns sync settings with defaults applied.
func (c *Config) GetSyncConfig() SyncConfig {
	cfg := SyncConfig{
		AWSRegion:            "us-east-1",
		AWSTableName:         "promptshell_history",
		GoogleCollectionName: "promptshell_history",
		AzureDatabaseName:    "promptshell",
		AzureContainerName:   "history",
		MongoDatabaseName:    "promptshell",
		MongoCollectionName:  "history",
	}
	if c == nil || c.Sync == nil {
		return cfg
	}
	s := *c.Sync
	if s.AWSRegion == "" {
		s.AWSRegion = cfg.AWSRegion
	}
	if s.AWSTableName == "" {
		s.AWSTableName = cfg.AWSTableName
	}
	if s.GoogleCollectionName == "" {
		s.GoogleCollectionName = cfg.GoogleCollectionName
	}
	if s.AzureDatabaseName == "" {
		s.AzureDatabaseName = cfg.AzureDatabaseName
	}
	if s.AzureContainerName == "" {
		s.AzureContainerName = cfg.AzureContainerName
	}
	if s.MongoDatabaseName == "" {
		s.MongoDatabaseName = cfg.MongoDatabaseName
	}
	if s.MongoCollectionName == "" {
		s.MongoCollectionName = cfg.MongoCollectionName
	}
	return s
}
