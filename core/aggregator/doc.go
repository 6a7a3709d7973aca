// Package aggregator orchestrates one aggregation cycle: fetch every source
// concurrently, reconcile the successes, write the cache, and hold the result as the
// current snapshot.
//
// # Single flight
//
// Concurrent cache misses collapse into one cycle keyed by the cache key. Callers that
// arrive while a cycle is running wait for its result. Once started, a cycle runs to
// completion even if the caller that triggered it goes away.
//
// # Failure
//
// A source failure is tolerated as long as one market source succeeds. When none does,
// the cycle fails with ErrAggregationFailed: the cache and the current snapshot are left
// untouched, and GetSnapshot returns the previous snapshot alongside the error, or
// ErrNoData when no cycle has ever succeeded.
//
// # Usage
//
//	svc := aggregator.New(cfg.Aggregator, srcs, tieredCache, logger, m)
//	snap, err := svc.GetSnapshot(ctx, false)
//	if err != nil && snap == nil {
//	    // nothing to serve yet
//	}
package aggregator
