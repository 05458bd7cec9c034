package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, BackendMongo, cfg.StorageBackend)
	assert.Equal(t, "ficore_credits", cfg.MongoDatabase)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "etcd")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDynamoDBRequiresTableNames(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendDynamoDB)
	t.Setenv("DYNAMODB_USERS_TABLE_NAME", "users")

	_, err := Load()
	assert.Error(t, err)
}
