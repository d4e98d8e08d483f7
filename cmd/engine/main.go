package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/payment-engine/internal/config"
	"github.com/sheikh-saqib/payment-engine/internal/csvio"
	"github.com/sheikh-saqib/payment-engine/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/payment-engine/internal/interfaces"
	"github.com/sheikh-saqib/payment-engine/internal/ledger"
	"github.com/sheikh-saqib/payment-engine/internal/logging"
	"github.com/sheikh-saqib/payment-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payment-engine/internal/storage/postgres"
	"go.uber.org/zap"
)

var errMissingInput = errors.New("expected a transactions file, but got none")

func main() {
	storage := flag.String("storage", "", "Storage backend: memory or postgres (overrides STORAGE_BACKEND)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <transactions.csv>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := overrideStorage(cfg, *storage); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -storage: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With(zap.String("component", "engine"))
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, flag.Args(), os.Stdout); err != nil {
		logger.Error("run failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

// overrideStorage applies the -storage flag on top of the loaded config.
func overrideStorage(cfg *config.Config, storage string) error {
	if storage == "" {
		return nil
	}
	cfg.Storage = config.NormalizeStorage(storage)
	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errMissingInput
	}

	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer in.Close()

	store, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if cfg.Kafka.Enabled() {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("closing kafka publisher failed", zap.Error(err))
			}
		}()
		opts = append(opts, ledger.WithPublisher(publisher, cfg.Kafka.Topic))
	}

	l := ledger.NewLedger(store, opts...)

	start := time.Now()
	summary, err := l.Run(ctx, csvio.NewReader(in), csvio.NewWriter(stdout))
	if err != nil {
		return err
	}

	logger.Info("ledger replay finished",
		zap.String("storage", cfg.Storage),
		zap.Int("processed", summary.Processed),
		zap.Int("rejected", summary.Rejected),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (interfaces.RecordStore, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Reset(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("connected to postgres", zap.Int("max_open_conns", cfg.MaxOpenConns))
		return postgres.NewPostgresRecordStore(db), func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database failed", zap.Error(err))
			}
		}, nil
	case config.StorageMemory:
		return memory.NewMemoryRecordStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, cfg.Storage)
	}
}
