package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"token-aggregator/core/cache"
	"token-aggregator/core/metrics"
	"token-aggregator/core/reconcile"
	"token-aggregator/core/sources"
	"token-aggregator/core/token"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrAggregationFailed means no market source succeeded in a cycle.
	ErrAggregationFailed = errors.New("aggregation failed")
	// ErrNoData means there is no snapshot to fall back on.
	ErrNoData = errors.New("no snapshot available")
)

// SnapshotCache is the tiered cache the service reads and writes.
type SnapshotCache interface {
	Read(ctx context.Context, key string) (*token.Snapshot, cache.Tier, bool)
	Write(ctx context.Context, key string, snap *token.Snapshot, ttl time.Duration)
}

// Service produces snapshots on demand.
type Service struct {
	cfg     Config
	sources []sources.Source
	cache   SnapshotCache
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	group   singleflight.Group
	current atomic.Pointer[token.Snapshot]

	mu           sync.RWMutex
	lastSuccess  time.Time
	lastAttempt  time.Time
	lastErr      error
	sourceErrors map[string]string
}

// New creates an aggregation service. Sources are reconciled in the given order
// within their kind.
func New(cfg Config, srcs []sources.Source, c SnapshotCache, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheKey == "" {
		cfg.CacheKey = "tokens:all"
	}
	return &Service{
		cfg:     cfg,
		sources: srcs,
		cache:   c,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) ttl() time.Duration {
	if s.cfg.CacheTTLSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.cfg.CacheTTLSeconds) * time.Second
}

// GetSnapshot returns a snapshot, running an aggregation cycle on a cache miss or
// when forceRefresh is set. On a failed cycle it returns the previous snapshot, if
// any, together with the error.
func (s *Service) GetSnapshot(ctx context.Context, forceRefresh bool) (*token.Snapshot, error) {
	if !forceRefresh {
		if snap, ok := s.readCache(ctx); ok {
			return snap, nil
		}
	}

	v, err, shared := s.group.Do(s.cfg.CacheKey, func() (any, error) {
		// Another flight may have filled the cache while this caller waited.
		if !forceRefresh {
			if snap, ok := s.readCache(ctx); ok {
				return snap, nil
			}
		}
		return s.runCycle(context.WithoutCancel(ctx))
	})
	if shared {
		s.logger.Debug("Joined in-flight aggregation cycle")
	}

	snap, _ := v.(*token.Snapshot)
	return snap, err
}

// Current returns the last snapshot this service produced or adopted, or nil.
func (s *Service) Current() *token.Snapshot {
	return s.current.Load()
}

// Status reports whether the service has data and whether it is fresh.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.current.Load()
	st := Status{
		Tokens:      snap.Len(),
		LastSuccess: timePtr(s.lastSuccess),
		LastAttempt: timePtr(s.lastAttempt),
	}
	if snap != nil {
		st.SnapshotAt = timePtr(snap.CreatedAt)
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if len(s.sourceErrors) > 0 {
		st.SourceErrors = make(map[string]string, len(s.sourceErrors))
		for k, v := range s.sourceErrors {
			st.SourceErrors[k] = v
		}
	}

	switch {
	case snap == nil:
		st.State = StateNoData
	case s.lastErr != nil:
		st.State = StateStale
	default:
		st.State = StateFresh
	}
	return st
}

func (s *Service) readCache(ctx context.Context) (*token.Snapshot, bool) {
	snap, tier, ok := s.cache.Read(ctx, s.cfg.CacheKey)
	if !ok {
		return nil, false
	}
	s.adopt(snap)
	s.logger.Debug("Serving cached snapshot", zap.String("tier", string(tier)), zap.Int("tokens", snap.Len()))
	return snap, true
}

// adopt makes snap current when it is newer than what the service holds.
func (s *Service) adopt(snap *token.Snapshot) {
	for {
		cur := s.current.Load()
		if cur != nil && !snap.CreatedAt.After(cur.CreatedAt) {
			return
		}
		if s.current.CompareAndSwap(cur, snap) {
			s.metrics.SetSnapshotTokens(snap.Len())
			return
		}
	}
}

func (s *Service) runCycle(ctx context.Context) (*token.Snapshot, error) {
	start := s.now()
	results := s.fetchAll(ctx)

	sourceErrors := make(map[string]string)
	marketOK := false
	for _, r := range results {
		if !r.OK() {
			sourceErrors[string(r.Source)] = r.Err.Error()
			continue
		}
		if r.Kind == sources.KindMarket {
			marketOK = true
		}
	}
	elapsed := s.now().Sub(start).Seconds()

	if !marketOK {
		err := fmt.Errorf("%w: %d of %d sources failed", ErrAggregationFailed, len(sourceErrors), len(results))
		s.record(start, err, sourceErrors)
		s.metrics.RecordCycle(metrics.OutcomeFailed, elapsed)

		prior := s.current.Load()
		s.logger.Error("Aggregation cycle failed",
			zap.Error(err),
			zap.Any("sources", sourceErrors),
			zap.Bool("serving_previous", prior != nil),
		)
		if prior == nil {
			return nil, fmt.Errorf("%w: %w", ErrNoData, err)
		}
		return prior, err
	}

	snap := reconcile.Reconcile(results, s.now())
	s.cache.Write(ctx, s.cfg.CacheKey, snap, s.ttl())
	s.current.Store(snap)
	s.record(start, nil, sourceErrors)
	s.metrics.SetSnapshotTokens(snap.Len())

	outcome := metrics.OutcomeSuccess
	if len(sourceErrors) > 0 {
		outcome = metrics.OutcomePartial
	}
	s.metrics.RecordCycle(outcome, elapsed)

	s.logger.Info("Aggregation cycle completed",
		zap.String("outcome", outcome),
		zap.Int("tokens", snap.Len()),
		zap.Duration("duration", s.now().Sub(start)),
	)
	return snap, nil
}

// fetchAll calls every source concurrently and waits for all of them.
// A failing source never cancels the others.
func (s *Service) fetchAll(ctx context.Context) []sources.Result {
	results := make([]sources.Result, len(s.sources))

	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			tokens, err := src.Fetch(ctx)
			results[i] = sources.Result{Source: src.Name(), Kind: src.Kind(), Tokens: tokens}
			if err != nil {
				results[i].Tokens = nil
				results[i].Err = sources.Unavailable(src.Name(), err)
				s.metrics.RecordSourceFailure(string(src.Name()))
				s.logger.Warn("Source fetch failed", zap.String("source", string(src.Name())), zap.Error(err))
				return nil
			}
			s.logger.Debug("Source fetched", zap.String("source", string(src.Name())), zap.Int("tokens", len(tokens)))
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) record(attempt time.Time, err error, sourceErrors map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAttempt = attempt
	s.lastErr = err
	s.sourceErrors = sourceErrors
	if err == nil {
		s.lastSuccess = attempt
	}
}
