// Package reconcile merges the per-source outputs of one aggregation cycle into a
// single snapshot with exactly one record per token address.
//
// # Merge policy
//
// Results are processed in a fixed priority order: market sources first, in the order
// they were supplied, then metadata sources.
//
//   - Duplicate market records for one address are distinct trading pairs: liquidity,
//     volume24h and volume1h are summed.
//   - Price, percent changes, pair details and the source label come from the duplicate
//     with the most recent updatedAt. On equal timestamps the first-seen record wins.
//   - Metadata records only decorate an existing record: a non-empty logo overwrites,
//     verified is OR-ed, decimals fill in when unknown. They never create a record.
//   - Failed results are ignored.
//
// The output keeps the order in which addresses were first seen, so running Reconcile
// twice over the same input yields identical snapshots.
package reconcile
