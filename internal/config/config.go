package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var (
	// ErrUnknownStorage is returned for a STORAGE_BACKEND other than memory or postgres.
	ErrUnknownStorage = errors.New("unknown storage backend")
	// ErrMissingDatabaseURL is returned when the postgres backend has no PGSQL_URL.
	ErrMissingDatabaseURL = errors.New("PGSQL_URL is required for the postgres backend")
)

// Config holds the engine configuration.
type Config struct {
	Storage      string
	DatabaseURL  string
	MaxOpenConns int
	Logging      LoggingConfig
	Kafka        KafkaConfig
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string
	Format string // json|console
}

// KafkaConfig enables the optional outcome event stream. No brokers, no events.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads configuration from the environment and a .env file if present.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("STORAGE_BACKEND", StorageMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "transaction_processed")
	v.AutomaticEnv()

	cfg := &Config{
		Storage:      NormalizeStorage(v.GetString("STORAGE_BACKEND")),
		DatabaseURL:  v.GetString("PGSQL_URL"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend can be built.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeStorage folds a backend name into the form Validate expects.
func NormalizeStorage(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
