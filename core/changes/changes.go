// Package changes detects which tokens moved enough between two snapshots to be
// worth pushing to subscribers.
package changes

import (
	"math"

	"token-aggregator/core/token"
)

// Default thresholds.
const (
	DefaultPriceThreshold  = 0.01
	DefaultVolumeThreshold = 1.2
)

// Diff returns the tokens of next whose relative price move or 1h volume ratio
// against prev reaches the given thresholds. Both comparisons are inclusive.
// Tokens missing from prev are never reported. Output follows next's order.
func Diff(prev, next *token.Snapshot, priceThreshold, volumeThreshold float64) token.ChangeSet {
	out := token.ChangeSet{}
	if prev.Len() == 0 || next.Len() == 0 {
		return out
	}

	index := make(map[string]token.Token, prev.Len())
	for _, t := range prev.Tokens {
		index[t.Address] = t
	}

	for _, t := range next.Tokens {
		old, ok := index[t.Address]
		if !ok {
			continue
		}
		if PriceDelta(old, t) >= priceThreshold || VolumeRatio(old, t) >= volumeThreshold {
			out = append(out, t)
		}
	}
	return out
}

// PriceDelta is the relative price move, or 0 when the old price is 0.
func PriceDelta(old, next token.Token) float64 {
	if old.PriceUSD == 0 {
		return 0
	}
	return math.Abs(next.PriceUSD-old.PriceUSD) / old.PriceUSD
}

// VolumeRatio is next.Volume1h over old.Volume1h, or 0 when the old volume is 0.
func VolumeRatio(old, next token.Token) float64 {
	if old.Volume1h == 0 {
		return 0
	}
	return next.Volume1h / old.Volume1h
}
