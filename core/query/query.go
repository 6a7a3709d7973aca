// Package query sorts a snapshot and pages through it with address cursors.
package query

import (
	"sort"

	"token-aggregator/core/token"
)

// SortBy selects the comparator.
type SortBy string

const (
	SortVolume      SortBy = "volume"
	SortPriceChange SortBy = "priceChange"
	SortMarketCap   SortBy = "marketCap"
)

// TimeFrame selects which change and volume fields participate in sorting.
type TimeFrame string

const (
	TimeFrame1h  TimeFrame = "1h"
	TimeFrame24h TimeFrame = "24h"
	TimeFrame7d  TimeFrame = "7d"
)

// Params describes one page request. Limit must already be normalized.
type Params struct {
	SortBy    SortBy
	TimeFrame TimeFrame
	Limit     int
	Cursor    string
}

// Page is one slice of a sorted snapshot.
type Page struct {
	Tokens     []token.Token `json:"tokens"`
	NextCursor *string       `json:"nextCursor"`
	Total      int           `json:"total"`
}

// Fields returns the percent-change and volume accessors for a time frame.
// Unknown values fall back to 24h.
func Fields(tf TimeFrame) (change, volume func(token.Token) float64) {
	switch tf {
	case TimeFrame1h:
		return func(t token.Token) float64 { return t.PriceChange1h },
			func(t token.Token) float64 { return t.Volume1h }
	case TimeFrame7d:
		return func(t token.Token) float64 { return t.PriceChange7d },
			func(t token.Token) float64 { return t.Volume24h }
	default:
		return func(t token.Token) float64 { return t.PriceChange24h },
			func(t token.Token) float64 { return t.Volume24h }
	}
}

// Sort returns a sorted copy of the snapshot's tokens, descending by the selected
// key. Ties keep snapshot order.
func Sort(snap *token.Snapshot, sortBy SortBy, tf TimeFrame) []token.Token {
	if snap.Len() == 0 {
		return []token.Token{}
	}
	sorted := make([]token.Token, len(snap.Tokens))
	copy(sorted, snap.Tokens)

	change, volume := Fields(tf)
	var key func(token.Token) float64
	switch sortBy {
	case SortVolume:
		key = volume
	case SortPriceChange:
		key = change
	case SortMarketCap:
		key = func(t token.Token) float64 { return t.MarketCap }
	default:
		key = func(t token.Token) float64 { return t.Volume24h }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})
	return sorted
}

// Query sorts the snapshot and returns the page after Cursor.
//
// An unknown cursor restarts from the beginning. NextCursor is set whenever the page
// is exactly Limit long, so when the remaining items equal Limit the following call
// returns an empty page: an empty page, not a nil cursor, marks the end of data.
func Query(snap *token.Snapshot, p Params) Page {
	sorted := Sort(snap, p.SortBy, p.TimeFrame)

	start := 0
	if p.Cursor != "" {
		for i, t := range sorted {
			if t.Address == p.Cursor {
				start = i + 1
				break
			}
		}
	}

	end := len(sorted)
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}

	page := Page{
		Tokens: sorted[start:end],
		Total:  len(sorted),
	}
	if p.Limit > 0 && len(page.Tokens) == p.Limit {
		next := page.Tokens[len(page.Tokens)-1].Address
		page.NextCursor = &next
	}
	return page
}
