// Package tokens serves paginated, sortable token snapshots over HTTP.
//
// # Endpoints
//
//   - GET /api/tokens?sortBy=&timeFrame=&limit=&cursor=
//   - GET /api/tokens/:address
//
// Pages come from the aggregation service's current snapshot; a cache miss triggers
// one aggregation cycle shared by all concurrent requests. When the last refresh
// failed but an older snapshot is held, responses carry "stale": true. When no
// snapshot has ever been produced the endpoint answers 503.
//
// A page of exactly limit items always carries a nextCursor, so the call after the
// final full page returns an empty list: clients should stop on an empty page.
package tokens
