package query

import (
	"fmt"
	"testing"
	"time"

	"token-aggregator/core/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) *token.Snapshot {
	tokens := make([]token.Token, 0, n)
	for i := 0; i < n; i++ {
		tokens = append(tokens, token.Token{
			Address:   fmt.Sprintf("T%02d", i),
			Volume24h: float64(n - i),
		})
	}
	return token.NewSnapshot(tokens, time.Unix(0, 0))
}

func addresses(tokens []token.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Address)
	}
	return out
}

func TestQuery_PaginatesWithoutGapsOrDuplicates(t *testing.T) {
	snap := numbered(45)

	first := Query(snap, Params{Limit: 20})
	require.Len(t, first.Tokens, 20)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, 45, first.Total)

	second := Query(snap, Params{Limit: 20, Cursor: *first.NextCursor})
	require.Len(t, second.Tokens, 20)
	require.NotNil(t, second.NextCursor)

	third := Query(snap, Params{Limit: 20, Cursor: *second.NextCursor})
	require.Len(t, third.Tokens, 5)
	assert.Nil(t, third.NextCursor)

	var all []string
	all = append(all, addresses(first.Tokens)...)
	all = append(all, addresses(second.Tokens)...)
	all = append(all, addresses(third.Tokens)...)
	assert.Equal(t, addresses(Sort(snap, "", "")), all)
}

func TestQuery_ExactMultipleYieldsTrailingEmptyPage(t *testing.T) {
	snap := numbered(40)

	first := Query(snap, Params{Limit: 20})
	second := Query(snap, Params{Limit: 20, Cursor: *first.NextCursor})
	require.Len(t, second.Tokens, 20)
	require.NotNil(t, second.NextCursor, "a full page always carries a cursor")

	third := Query(snap, Params{Limit: 20, Cursor: *second.NextCursor})
	assert.Empty(t, third.Tokens)
	assert.Nil(t, third.NextCursor)
	assert.Equal(t, 40, third.Total)
}

func TestQuery_UnknownCursorRestarts(t *testing.T) {
	snap := numbered(5)
	page := Query(snap, Params{Limit: 2, Cursor: "GONE"})
	assert.Equal(t, []string{"T00", "T01"}, addresses(page.Tokens))
}

func TestQuery_EmptySnapshot(t *testing.T) {
	page := Query(nil, Params{Limit: 20})
	assert.Empty(t, page.Tokens)
	assert.NotNil(t, page.Tokens)
	assert.Nil(t, page.NextCursor)
	assert.Equal(t, 0, page.Total)
}

func TestSort(t *testing.T) {
	snap := token.NewSnapshot([]token.Token{
		{Address: "A", PriceChange1h: 1, PriceChange24h: 9, PriceChange7d: 5, Volume1h: 30, Volume24h: 100, MarketCap: 7},
		{Address: "B", PriceChange1h: 3, PriceChange24h: 2, PriceChange7d: 8, Volume1h: 10, Volume24h: 300, MarketCap: 9},
		{Address: "C", PriceChange1h: 2, PriceChange24h: 5, PriceChange7d: 1, Volume1h: 20, Volume24h: 200, MarketCap: 8},
	}, time.Unix(0, 0))

	tests := []struct {
		name      string
		sortBy    SortBy
		timeFrame TimeFrame
		want      []string
	}{
		{name: "Default", want: []string{"B", "C", "A"}},
		{name: "Volume1h", sortBy: SortVolume, timeFrame: TimeFrame1h, want: []string{"A", "C", "B"}},
		{name: "Volume7dUses24h", sortBy: SortVolume, timeFrame: TimeFrame7d, want: []string{"B", "C", "A"}},
		{name: "PriceChange1h", sortBy: SortPriceChange, timeFrame: TimeFrame1h, want: []string{"B", "C", "A"}},
		{name: "PriceChange24h", sortBy: SortPriceChange, timeFrame: TimeFrame24h, want: []string{"A", "C", "B"}},
		{name: "PriceChange7d", sortBy: SortPriceChange, timeFrame: TimeFrame7d, want: []string{"B", "A", "C"}},
		{name: "UnknownTimeFrame", sortBy: SortPriceChange, timeFrame: "30d", want: []string{"A", "C", "B"}},
		{name: "MarketCap", sortBy: SortMarketCap, want: []string{"B", "C", "A"}},
		{name: "UnknownSort", sortBy: "name", timeFrame: TimeFrame1h, want: []string{"B", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addresses(Sort(snap, tt.sortBy, tt.timeFrame)))
		})
	}
}

func TestSort_StableOnTies(t *testing.T) {
	snap := token.NewSnapshot([]token.Token{
		{Address: "X", Volume24h: 1},
		{Address: "Y", Volume24h: 5},
		{Address: "Z", Volume24h: 1},
		{Address: "W", Volume24h: 1},
	}, time.Unix(0, 0))

	assert.Equal(t, []string{"Y", "X", "Z", "W"}, addresses(Sort(snap, SortVolume, TimeFrame24h)))
	assert.Equal(t, "X", snap.Tokens[0].Address, "snapshot must not be reordered")
}

func TestConfig_Limit(t *testing.T) {
	cfg := Config{DefaultLimit: 20, MaxLimit: 100}
	assert.Equal(t, 20, cfg.Limit(0))
	assert.Equal(t, 20, cfg.Limit(-3))
	assert.Equal(t, 50, cfg.Limit(50))
	assert.Equal(t, 100, cfg.Limit(500))
	assert.Equal(t, 20, Config{}.Limit(0))
}
