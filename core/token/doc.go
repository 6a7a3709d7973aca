// Package token defines the canonical token record shared by every stage of the
// aggregation pipeline.
//
// Upstream sources disagree on shape and naming; each source adapter maps its payload
// into a Token, the reconciler merges same-address tokens into one Snapshot, and the
// query, diff and broadcast stages only ever see Snapshots and ChangeSets.
//
// # Invariants
//
//   - A Snapshot holds exactly one Token per Address.
//   - A Snapshot is never mutated after it is published. The next cycle produces a new one.
//   - A ChangeSet is a subset of one Snapshot's tokens. It carries no add/remove semantics.
package token
