package cmd

import (
	"context"
	"fmt"

	"token-aggregator/core/cache"
	"token-aggregator/core/config"
	"token-aggregator/core/logger"
	"token-aggregator/core/redis"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cachePattern string

// cacheCmd is the parent command for cache maintenance.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the snapshot cache",
}

// cacheClearCmd deletes cached snapshots from the distributed tier.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached snapshots matching a pattern",
	Long: `Deletes every distributed cache key matching the glob pattern so that the next
request triggers a fresh aggregation cycle.

Examples:
  cache clear
  cache clear --pattern "tokens:*"`,
	RunE: runCacheClear,
}

func init() {
	cacheClearCmd.Flags().StringVar(&cachePattern, "pattern", "tokens:*", "Glob pattern of keys to delete")
	cacheCmd.AddCommand(cacheClearCmd)
	RootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	rdb := redis.New(cfg.Redis, l)
	defer rdb.Close()

	rdb.Connect(ctx)
	if !rdb.Available() {
		return fmt.Errorf("redis at %s is unreachable", cfg.Redis.Addr)
	}

	removed, _ := cache.New(rdb, l, nil).Invalidate(ctx, cachePattern)
	l.Info("Cache cleared", zap.String("pattern", cachePattern), zap.Int64("keys", removed))
	return nil
}
