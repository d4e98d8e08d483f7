package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PGSQL_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 5, cfg.MaxOpenConns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "transaction_processed", cfg.Kafka.Topic)
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("PGSQL_URL", "postgres://u:p@localhost:5432/engine?sslmode=disable")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 3, cfg.MaxOpenConns)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "memory", cfg: Config{Storage: StorageMemory}},
		{name: "postgres with url", cfg: Config{Storage: StoragePostgres, DatabaseURL: "postgres://x"}},
		{name: "postgres without url", cfg: Config{Storage: StoragePostgres}, wantErr: ErrMissingDatabaseURL},
		{name: "unknown", cfg: Config{Storage: "sqlite"}, wantErr: ErrUnknownStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
