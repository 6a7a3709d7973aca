package reconcile

import (
	"time"

	"token-aggregator/core/sources"
	"token-aggregator/core/token"
)

// Reconcile merges successful results into a snapshot stamped with createdAt.
func Reconcile(results []sources.Result, createdAt time.Time) *token.Snapshot {
	merged := make([]token.Token, 0)
	index := make(map[string]int)

	for _, res := range ordered(results) {
		if !res.OK() {
			continue
		}
		for _, t := range res.Tokens {
			if t.Address == "" {
				continue
			}
			pos, seen := index[t.Address]
			switch {
			case res.Kind == sources.KindMarket && !seen:
				index[t.Address] = len(merged)
				merged = append(merged, t)
			case res.Kind == sources.KindMarket:
				mergeMarket(&merged[pos], t)
			case seen:
				mergeMetadata(&merged[pos], t)
			}
		}
	}

	return token.NewSnapshot(merged, createdAt)
}

// ordered returns market results before metadata results, each group in input order.
func ordered(results []sources.Result) []sources.Result {
	out := make([]sources.Result, 0, len(results))
	for _, r := range results {
		if r.Kind == sources.KindMarket {
			out = append(out, r)
		}
	}
	for _, r := range results {
		if r.Kind != sources.KindMarket {
			out = append(out, r)
		}
	}
	return out
}

func mergeMarket(dst *token.Token, src token.Token) {
	liquidity := dst.Liquidity + src.Liquidity
	volume24h := dst.Volume24h + src.Volume24h
	volume1h := dst.Volume1h + src.Volume1h

	if src.UpdatedAt.After(dst.UpdatedAt) {
		dst.PriceUSD = src.PriceUSD
		dst.PriceChange1h = src.PriceChange1h
		dst.PriceChange24h = src.PriceChange24h
		dst.PriceChange7d = src.PriceChange7d
		dst.MarketCap = src.MarketCap
		dst.PairAddress = src.PairAddress
		dst.DexID = src.DexID
		dst.ChainID = src.ChainID
		dst.UpdatedAt = src.UpdatedAt
		dst.Source = src.Source
	}

	dst.Liquidity = liquidity
	dst.Volume24h = volume24h
	dst.Volume1h = volume1h

	if dst.LogoURI == "" {
		dst.LogoURI = src.LogoURI
	}
}

func mergeMetadata(dst *token.Token, src token.Token) {
	if src.LogoURI != "" {
		dst.LogoURI = src.LogoURI
	}
	dst.Verified = dst.Verified || src.Verified
	if dst.Decimals == 0 {
		dst.Decimals = src.Decimals
	}
}
