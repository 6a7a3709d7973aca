// Package poller drives the push side of the pipeline: on every tick it refreshes
// the snapshot and broadcasts either the full snapshot or the tokens that changed.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"token-aggregator/core/changes"
	"token-aggregator/core/metrics"
	"token-aggregator/core/token"

	"go.uber.org/zap"
)

// Aggregator produces snapshots.
type Aggregator interface {
	GetSnapshot(ctx context.Context, forceRefresh bool) (*token.Snapshot, error)
}

// Broadcaster delivers events to subscribers.
type Broadcaster interface {
	ClientCount() int
	PublishFull(snap *token.Snapshot)
	PublishDelta(changes token.ChangeSet)
}

// Outcome describes what a tick did.
type Outcome string

const (
	OutcomeSkipped   Outcome = "skipped"
	OutcomeBusy      Outcome = "busy"
	OutcomeFailed    Outcome = "failed"
	OutcomeFull      Outcome = "full"
	OutcomeDelta     Outcome = "delta"
	OutcomeUnchanged Outcome = "unchanged"
)

// Poller is a single-owner scheduled task. Ticks never overlap.
type Poller struct {
	cfg         Config
	aggregator  Aggregator
	broadcaster Broadcaster
	logger      *zap.Logger
	metrics     *metrics.Metrics

	running  atomic.Bool
	baseline *token.Snapshot

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a poller.
func New(cfg Config, agg Aggregator, b Broadcaster, logger *zap.Logger, m *metrics.Metrics) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PriceThreshold <= 0 {
		cfg.PriceThreshold = changes.DefaultPriceThreshold
	}
	if cfg.VolumeThreshold <= 0 {
		cfg.VolumeThreshold = changes.DefaultVolumeThreshold
	}
	return &Poller{
		cfg:         cfg,
		aggregator:  agg,
		broadcaster: b,
		logger:      logger,
		metrics:     m,
	}
}

func (p *Poller) interval() time.Duration {
	if p.cfg.IntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.cfg.IntervalSeconds) * time.Second
}

// Start runs one tick immediately and then one per interval until Stop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("Poller started",
		zap.Duration("interval", p.interval()),
		zap.Float64("price_threshold", p.cfg.PriceThreshold),
		zap.Float64("volume_threshold", p.cfg.VolumeThreshold),
	)
}

// Stop ends the loop and waits for an in-flight tick to finish or ctx to expire.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()

	p.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one cycle unless one is already running. Errors are logged, never returned.
func (p *Poller) Tick(ctx context.Context) Outcome {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Debug("Previous tick still running, skipping")
		return OutcomeBusy
	}
	defer p.running.Store(false)

	if p.broadcaster.ClientCount() == 0 {
		p.metrics.RecordPollerSkip()
		p.logger.Debug("No subscribers, skipping tick")
		return OutcomeSkipped
	}

	// The cycle itself is never cancelled once started.
	snap, err := p.aggregator.GetSnapshot(context.WithoutCancel(ctx), true)
	if err != nil {
		p.logger.Warn("Tick failed, keeping previous baseline", zap.Error(err))
		return OutcomeFailed
	}

	if p.baseline == nil {
		p.baseline = snap
		p.broadcaster.PublishFull(snap)
		p.logger.Info("Broadcast full snapshot", zap.Int("tokens", snap.Len()))
		return OutcomeFull
	}

	delta := changes.Diff(p.baseline, snap, p.cfg.PriceThreshold, p.cfg.VolumeThreshold)
	p.baseline = snap
	if len(delta) == 0 {
		p.logger.Debug("No material changes")
		return OutcomeUnchanged
	}

	p.broadcaster.PublishDelta(delta)
	p.logger.Info("Broadcast token updates", zap.Int("changed", len(delta)), zap.Int("tokens", snap.Len()))
	return OutcomeDelta
}
