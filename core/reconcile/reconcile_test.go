package reconcile

import (
	"errors"
	"testing"
	"time"

	"token-aggregator/core/sources"
	"token-aggregator/core/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func market(tokens ...token.Token) sources.Result {
	return sources.Result{Source: token.SourceDexScreener, Kind: sources.KindMarket, Tokens: tokens}
}

func metadata(name token.Source, tokens ...token.Token) sources.Result {
	return sources.Result{Source: name, Kind: sources.KindMetadata, Tokens: tokens}
}

func TestReconcile_SumsDuplicatePairs(t *testing.T) {
	older := token.Token{
		Address: "AAA", Name: "Alpha", Symbol: "A",
		PriceUSD: 1.0, PriceChange24h: 5, Liquidity: 100, Volume24h: 1000, Volume1h: 10,
		PairAddress: "pair-1", UpdatedAt: base, Source: token.SourceDexScreener,
	}
	newer := token.Token{
		Address: "AAA", Name: "Alpha", Symbol: "A",
		PriceUSD: 1.5, PriceChange24h: 7, Liquidity: 250, Volume24h: 500, Volume1h: 5,
		PairAddress: "pair-2", UpdatedAt: base.Add(time.Second), Source: token.SourceDexScreener,
	}

	snap := Reconcile([]sources.Result{market(older, newer)}, base)
	require.Equal(t, 1, snap.Len())

	got := snap.Tokens[0]
	assert.Equal(t, 350.0, got.Liquidity)
	assert.Equal(t, 1500.0, got.Volume24h)
	assert.Equal(t, 15.0, got.Volume1h)
	assert.Equal(t, 1.5, got.PriceUSD)
	assert.Equal(t, 7.0, got.PriceChange24h)
	assert.Equal(t, "pair-2", got.PairAddress)
	assert.Equal(t, newer.UpdatedAt, got.UpdatedAt)
}

func TestReconcile_FreshestPriceRegardlessOfOrder(t *testing.T) {
	newer := token.Token{Address: "AAA", PriceUSD: 2, Liquidity: 1, UpdatedAt: base.Add(time.Minute)}
	older := token.Token{Address: "AAA", PriceUSD: 1, Liquidity: 1, UpdatedAt: base}

	snap := Reconcile([]sources.Result{market(newer, older)}, base)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, 2.0, snap.Tokens[0].PriceUSD)
	assert.Equal(t, 2.0, snap.Tokens[0].Liquidity)
}

func TestReconcile_EqualTimestampsKeepFirstSeen(t *testing.T) {
	first := token.Token{Address: "AAA", PriceUSD: 1, UpdatedAt: base}
	second := token.Token{Address: "AAA", PriceUSD: 9, UpdatedAt: base}

	snap := Reconcile([]sources.Result{market(first, second)}, base)
	assert.Equal(t, 1.0, snap.Tokens[0].PriceUSD)
}

func TestReconcile_MetadataOnlyDecorates(t *testing.T) {
	results := []sources.Result{
		metadata(token.SourceJupiter,
			token.Token{Address: "AAA", LogoURI: "https://jup/a.png", Verified: true, Decimals: 6},
			token.Token{Address: "ZZZ", LogoURI: "https://jup/z.png", Verified: true},
		),
		market(token.Token{Address: "AAA", PriceUSD: 1, Source: token.SourceDexScreener}),
		metadata(token.SourceTokenList, token.Token{Address: "AAA", LogoURI: "https://list/a.png"}),
		metadata(token.SourceCurated, token.Token{Address: "AAA", LogoURI: ""}),
	}

	snap := Reconcile(results, base)
	require.Equal(t, 1, snap.Len())

	got := snap.Tokens[0]
	assert.Equal(t, "https://list/a.png", got.LogoURI)
	assert.True(t, got.Verified)
	assert.Equal(t, 6, got.Decimals)
	assert.Equal(t, token.SourceDexScreener, got.Source)

	_, ok := snap.Find("ZZZ")
	assert.False(t, ok)
}

func TestReconcile_IgnoresFailedResults(t *testing.T) {
	results := []sources.Result{
		{Source: token.SourceDexScreener, Kind: sources.KindMarket, Err: errors.New("timeout"),
			Tokens: []token.Token{{Address: "BAD"}}},
		market(token.Token{Address: "AAA"}),
	}

	snap := Reconcile(results, base)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "AAA", snap.Tokens[0].Address)
}

func TestReconcile_KeepsFirstSeenOrder(t *testing.T) {
	snap := Reconcile([]sources.Result{
		market(
			token.Token{Address: "CCC", UpdatedAt: base},
			token.Token{Address: "AAA", UpdatedAt: base},
			token.Token{Address: "CCC", UpdatedAt: base.Add(time.Second)},
			token.Token{Address: "BBB", UpdatedAt: base},
		),
	}, base)

	addresses := make([]string, 0, snap.Len())
	for _, tk := range snap.Tokens {
		addresses = append(addresses, tk.Address)
	}
	assert.Equal(t, []string{"CCC", "AAA", "BBB"}, addresses)
}

func TestReconcile_Idempotent(t *testing.T) {
	results := []sources.Result{
		market(
			token.Token{Address: "AAA", PriceUSD: 1, Liquidity: 100, UpdatedAt: base},
			token.Token{Address: "AAA", PriceUSD: 2, Liquidity: 250, UpdatedAt: base.Add(time.Second)},
			token.Token{Address: "BBB", PriceUSD: 3, Liquidity: 10, UpdatedAt: base},
		),
		metadata(token.SourceJupiter, token.Token{Address: "BBB", LogoURI: "logo", Verified: true}),
	}

	first := Reconcile(results, base)
	second := Reconcile(results, base)
	assert.Equal(t, first, second)
	assert.Equal(t, 100.0, results[0].Tokens[0].Liquidity, "inputs must not be mutated")
}

func TestReconcile_Empty(t *testing.T) {
	snap := Reconcile(nil, base)
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Len())
	assert.NotNil(t, snap.Tokens)
	assert.Equal(t, base, snap.CreatedAt)
}
