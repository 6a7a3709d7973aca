package tokens

import (
	"context"

	"token-aggregator/core/query"
	"token-aggregator/core/token"

	"go.uber.org/zap"
)

// Snapshotter is the aggregation service as seen by this feature.
type Snapshotter interface {
	GetSnapshot(ctx context.Context, forceRefresh bool) (*token.Snapshot, error)
}

// ListRequest holds the query parameters of a page request.
type ListRequest struct {
	SortBy    string
	TimeFrame string
	Limit     int
	Cursor    string
}

// ListResult is one page plus freshness information.
type ListResult struct {
	Page  query.Page
	Stale bool
}

// Service handles token queries.
type Service struct {
	snapshots Snapshotter
	limits    query.Config
	logger    *zap.Logger
}

// NewService creates a new tokens service.
func NewService(snapshots Snapshotter, limits query.Config, logger *zap.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		limits:    limits,
		logger:    logger,
	}
}

// current returns a snapshot and whether it is stale. It fails only when there is
// nothing to serve.
func (s *Service) current(ctx context.Context) (*token.Snapshot, bool, error) {
	snap, err := s.snapshots.GetSnapshot(ctx, false)
	if snap == nil {
		return nil, false, err
	}
	if err != nil {
		s.logger.Warn("Serving previous snapshot after failed refresh", zap.Error(err))
	}
	return snap, err != nil, nil
}

// List returns one page of the sorted snapshot.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	snap, stale, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	page := query.Query(snap, query.Params{
		SortBy:    query.SortBy(req.SortBy),
		TimeFrame: query.TimeFrame(req.TimeFrame),
		Limit:     s.limits.Limit(req.Limit),
		Cursor:    req.Cursor,
	})
	return &ListResult{Page: page, Stale: stale}, nil
}

// Get returns a single token from the snapshot.
func (s *Service) Get(ctx context.Context, address string) (token.Token, bool, error) {
	snap, _, err := s.current(ctx)
	if err != nil {
		return token.Token{}, false, err
	}
	t, ok := snap.Find(address)
	return t, ok, nil
}
