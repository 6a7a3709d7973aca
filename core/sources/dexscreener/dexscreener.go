// Package dexscreener maps DexScreener trading pairs into canonical tokens.
//
// DexScreener reports one entry per trading pair, so the same token address
// usually appears several times in a single response. This package does not merge
// them; the reconciler sums their liquidity and volume.
package dexscreener

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"token-aggregator/core/sources"
	"token-aggregator/core/token"

	"github.com/tidwall/gjson"
)

// Config holds the DexScreener endpoint settings.
type Config struct {
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.dexscreener.com"`
	// Query is the search term used to discover pairs.
	Query string `mapstructure:"query" default:"solana"`
	// ChainID drops pairs from other chains when set.
	ChainID string `mapstructure:"chain_id" default:"solana"`
}

// Source fetches pairs from DexScreener.
type Source struct {
	cfg    Config
	client sources.JSONGetter
	now    func() time.Time
}

// New creates a DexScreener source.
func New(cfg Config, client sources.JSONGetter) *Source {
	return &Source{cfg: cfg, client: client, now: time.Now}
}

func (s *Source) Name() token.Source { return token.SourceDexScreener }

func (s *Source) Kind() sources.Kind { return sources.KindMarket }

// Fetch returns one token per valid pair, in upstream order.
func (s *Source) Fetch(ctx context.Context) ([]token.Token, error) {
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/latest/dex/search?q=" + url.QueryEscape(s.cfg.Query)

	res, err := s.client.GetJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	pairs := res.Get("pairs")
	if !pairs.IsArray() {
		return nil, fmt.Errorf("dexscreener: response has no pairs array")
	}

	fetchedAt := s.now()
	out := make([]token.Token, 0, len(pairs.Array()))
	for _, pair := range pairs.Array() {
		t, ok := Normalize(pair, fetchedAt)
		if !ok {
			continue
		}
		if s.cfg.ChainID != "" && t.ChainID != "" && !strings.EqualFold(t.ChainID, s.cfg.ChainID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Normalize maps one pair. It reports false when the base token address is missing.
// Missing name and symbol default to "Unknown" and "???", missing numerics to 0.
// The quote time is the fetch time since pairs carry no per-quote timestamp.
func Normalize(pair gjson.Result, fetchedAt time.Time) (token.Token, bool) {
	if !pair.IsObject() {
		return token.Token{}, false
	}
	address := pair.Get("baseToken.address").String()
	if address == "" {
		return token.Token{}, false
	}

	marketCap := pair.Get("marketCap")
	if !marketCap.Exists() {
		marketCap = pair.Get("fdv")
	}

	return token.Token{
		Address:        address,
		Name:           sources.StringOr(pair.Get("baseToken.name"), "Unknown"),
		Symbol:         sources.StringOr(pair.Get("baseToken.symbol"), "???"),
		PriceUSD:       sources.NonNegative(pair.Get("priceUsd").Float()),
		PriceChange1h:  pair.Get("priceChange.h1").Float(),
		PriceChange24h: pair.Get("priceChange.h24").Float(),
		PriceChange7d:  pair.Get("priceChange.w1").Float(),
		Volume1h:       sources.NonNegative(pair.Get("volume.h1").Float()),
		Volume24h:      sources.NonNegative(pair.Get("volume.h24").Float()),
		Liquidity:      sources.NonNegative(pair.Get("liquidity.usd").Float()),
		MarketCap:      sources.NonNegative(marketCap.Float()),
		LogoURI:        pair.Get("info.imageUrl").String(),
		PairAddress:    pair.Get("pairAddress").String(),
		DexID:          pair.Get("dexId").String(),
		ChainID:        pair.Get("chainId").String(),
		UpdatedAt:      fetchedAt,
		Source:         token.SourceDexScreener,
	}, true
}
