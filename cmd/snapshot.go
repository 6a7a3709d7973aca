package cmd

import (
	"context"
	"fmt"
	"os"

	"token-aggregator/core/config"
	"token-aggregator/core/logger"
	"token-aggregator/core/query"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for snapshot command
	snapshotSort      string
	snapshotTimeFrame string
	snapshotLimit     int
	snapshotCursor    string
	snapshotForce     bool
)

// snapshotCmd runs one aggregation cycle and prints a page of the result.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the aggregated token snapshot and print one page",
	Long: `Reads the snapshot through the same cache and sources as the server and prints
one page of it as JSON.

Examples:
  # Top 20 by 24h volume, served from cache when fresh
  snapshot

  # Bypass the cache and sort by 1h price change
  snapshot --force --sort priceChange --timeframe 1h

  # Next page
  snapshot --cursor <nextCursor>`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotSort, "sort", string(query.SortVolume), "Sort key (volume, priceChange, marketCap)")
	snapshotCmd.Flags().StringVar(&snapshotTimeFrame, "timeframe", string(query.TimeFrame24h), "Time frame (1h, 24h, 7d)")
	snapshotCmd.Flags().IntVar(&snapshotLimit, "limit", 0, "Page size (0 uses the configured default)")
	snapshotCmd.Flags().StringVar(&snapshotCursor, "cursor", "", "Cursor returned by a previous page")
	snapshotCmd.Flags().BoolVar(&snapshotForce, "force", false, "Skip the cache and run a fresh cycle")

	RootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
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

	p := newPipeline(ctx, cfg, l)
	defer p.Close(l)

	snap, err := p.aggregator.GetSnapshot(ctx, snapshotForce)
	if snap == nil {
		return fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	if err != nil {
		l.Warn("Printing previous snapshot after failed refresh", zap.Error(err))
	}

	page := query.Query(snap, query.Params{
		SortBy:    query.SortBy(snapshotSort),
		TimeFrame: query.TimeFrame(snapshotTimeFrame),
		Limit:     cfg.Query.Limit(snapshotLimit),
		Cursor:    snapshotCursor,
	})

	out, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
