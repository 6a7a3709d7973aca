// Package sources defines the boundary between upstream data providers and the
// aggregation pipeline.
//
// Each provider lives in its own sub-package and implements Source. A Source performs
// one fetch per aggregation cycle and maps every raw record through a pure normalizer
// into a token.Token, dropping records that lack an identity. Failures are reported
// per source so that one broken upstream never voids the others.
//
// # Kinds
//
//   - KindMarket sources carry price and liquidity data and create records.
//   - KindMetadata sources only enrich records that a market source already produced.
//
// # Providers
//
//   - dexscreener: trading pairs (market)
//   - jupiter: token registry with logos and verification tags (metadata)
//   - curated: operator-maintained overrides in MySQL (metadata, optional)
//   - tokenlist: a JSON token list stored in an S3 bucket (metadata, optional)
package sources
