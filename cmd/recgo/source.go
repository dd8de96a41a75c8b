package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	minioclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/blobstore"
	minioblob "github.com/hupe1980/recgo/blobstore/minio"
	s3blob "github.com/hupe1980/recgo/blobstore/s3"
	"github.com/hupe1980/recgo/graph"
	"github.com/hupe1980/recgo/ingest"
)

// newSource builds the dataset source selected by the config.
func newSource(ctx context.Context, cfg *Config) (blobstore.Store, error) {
	switch cfg.Dataset.Source {
	case "local":
		return blobstore.NewLocalStore(cfg.Dataset.Root), nil

	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Dataset.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3blob.NewStore(awss3.NewFromConfig(awsCfg), cfg.Dataset.Bucket, cfg.Dataset.Prefix), nil

	case "minio":
		client, err := minioclient.New(cfg.Dataset.Endpoint, &minioclient.Options{
			Creds:  credentials.NewStaticV4(cfg.Dataset.AccessKey, cfg.Dataset.SecretKey, ""),
			Secure: cfg.Dataset.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		return minioblob.NewStore(client, cfg.Dataset.Bucket, cfg.Dataset.Prefix), nil

	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}

// newStore builds a record store configured per the config.
func newStore(cfg *Config, logger *recgo.Logger, metrics recgo.MetricsCollector) (*recgo.Store, error) {
	opts := []recgo.Option{
		recgo.WithLogger(logger),
		recgo.WithMetricsCollector(metrics),
	}
	if cfg.Store.Undirected {
		opts = append(opts, recgo.WithUndirectedRelations())
	}

	switch cfg.Store.TraversalOrder {
	case "", "insertion":
	case "ascending":
		opts = append(opts, recgo.WithTraversalOrder(graph.OrderAscending))
	case "descending":
		opts = append(opts, recgo.WithTraversalOrder(graph.OrderDescending))
	default:
		return nil, fmt.Errorf("unknown traversal order %q", cfg.Store.TraversalOrder)
	}

	return recgo.New(opts...), nil
}

// loadDataset streams the configured dataset file into a fresh store.
func loadDataset(ctx context.Context, cfg *Config, logger *recgo.Logger) (*recgo.Store, ingest.LoadStats, error) {
	source, err := newSource(ctx, cfg)
	if err != nil {
		return nil, ingest.LoadStats{}, err
	}

	store, err := newStore(cfg, logger, nil)
	if err != nil {
		return nil, ingest.LoadStats{}, err
	}

	stats, err := ingest.LoadCSV(ctx, source, cfg.Dataset.File, store,
		ingest.WithWorkers(cfg.Store.Workers),
		ingest.WithLogger(logger.Logger),
	)
	if err != nil {
		return nil, ingest.LoadStats{}, fmt.Errorf("load dataset: %w", err)
	}
	return store, stats, nil
}

// newLogger builds the CLI logger from the logging config.
func newLogger(cfg *Config) *recgo.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.Logging.Format == "json" {
		return recgo.NewJSONLogger(level)
	}
	return recgo.NewTextLogger(level)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
