package cmd

import (
	"context"

	"token-aggregator/core/aggregator"
	"token-aggregator/core/cache"
	"token-aggregator/core/config"
	"token-aggregator/core/database"
	"token-aggregator/core/httpclient"
	"token-aggregator/core/metrics"
	"token-aggregator/core/redis"
	"token-aggregator/core/sources"
	"token-aggregator/core/sources/curated"
	"token-aggregator/core/sources/dexscreener"
	"token-aggregator/core/sources/jupiter"
	"token-aggregator/core/sources/tokenlist"
	"token-aggregator/core/storage"

	"go.uber.org/zap"
)

// pipeline holds the components shared by the server and the one-shot commands.
type pipeline struct {
	metrics    *metrics.Metrics
	redis      *redis.Client
	cache      *cache.Cache
	aggregator *aggregator.Service
}

// newPipeline connects the distributed cache and assembles every enabled source.
// Optional sources that fail to initialize are skipped with a warning.
func newPipeline(ctx context.Context, cfg *config.Config, logg *zap.Logger) *pipeline {
	m := metrics.New(cfg.Metrics)

	rdb := redis.New(cfg.Redis, logg.Named("redis"))
	rdb.Connect(ctx)

	c := cache.New(rdb, logg.Named("cache"), m)
	agg := aggregator.New(cfg.Aggregator, buildSources(ctx, cfg, logg), c, logg.Named("aggregator"), m)

	return &pipeline{metrics: m, redis: rdb, cache: c, aggregator: agg}
}

// buildSources returns the sources in merge order: market data first, then metadata.
func buildSources(ctx context.Context, cfg *config.Config, logg *zap.Logger) []sources.Source {
	client := httpclient.New(cfg.Sources.HTTP, logg.Named("http"))

	srcs := []sources.Source{
		dexscreener.New(cfg.Sources.DexScreener, client),
		jupiter.New(cfg.Sources.Jupiter, client),
	}

	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, curated source disabled", zap.Error(err))
		} else {
			logg.Info("Connected to curated token database")
			srcs = append(srcs, curated.New(db))
		}
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Optional storage client failed, token list source disabled", zap.Error(err))
		} else if ok, err := store.BucketExists(ctx, cfg.Storage.Bucket); err != nil || !ok {
			logg.Warn("Token list bucket unavailable, token list source disabled",
				zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else {
			srcs = append(srcs, tokenlist.New(store, cfg.Storage.Bucket, cfg.Storage.Object))
		}
	}

	names := make([]string, 0, len(srcs))
	for _, s := range srcs {
		names = append(names, string(s.Name()))
	}
	logg.Info("Sources configured", zap.Strings("sources", names))

	return srcs
}

func (p *pipeline) Close(logg *zap.Logger) {
	if err := p.redis.Close(); err != nil {
		logg.Warn("Failed to close redis client", zap.Error(err))
	}
}
