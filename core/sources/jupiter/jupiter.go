// Package jupiter maps the Jupiter token registry into metadata-only tokens.
package jupiter

import (
	"context"
	"fmt"

	"token-aggregator/core/sources"
	"token-aggregator/core/token"

	"github.com/tidwall/gjson"
)

// DefaultDecimals applies to registry entries that omit decimals (SPL default).
const DefaultDecimals = 9

// Config holds the Jupiter registry endpoint.
type Config struct {
	// URL returns either a JSON array of tokens or an object with a "tokens" array.
	URL string `mapstructure:"url" default:"https://lite-api.jup.ag/tokens/v1/tagged/verified"`
}

// Source fetches token metadata from Jupiter.
type Source struct {
	cfg    Config
	client sources.JSONGetter
}

// New creates a Jupiter source.
func New(cfg Config, client sources.JSONGetter) *Source {
	return &Source{cfg: cfg, client: client}
}

func (s *Source) Name() token.Source { return token.SourceJupiter }

func (s *Source) Kind() sources.Kind { return sources.KindMetadata }

// Fetch returns the normalized registry entries.
func (s *Source) Fetch(ctx context.Context) ([]token.Token, error) {
	res, err := s.client.GetJSON(ctx, s.cfg.URL)
	if err != nil {
		return nil, err
	}

	list := res
	if !list.IsArray() {
		list = res.Get("tokens")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("jupiter: response is not a token list")
	}

	entries := list.Array()
	out := make([]token.Token, 0, len(entries))
	for _, raw := range entries {
		if t, ok := Normalize(raw); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Normalize maps one registry entry. It reports false when the address is missing.
// An entry is verified when it says so explicitly or carries a "verified" or
// "strict" tag.
func Normalize(raw gjson.Result) (token.Token, bool) {
	if !raw.IsObject() {
		return token.Token{}, false
	}
	address := raw.Get("address").String()
	if address == "" {
		return token.Token{}, false
	}

	decimals := DefaultDecimals
	if d := raw.Get("decimals"); d.Exists() {
		decimals = int(d.Int())
	}

	verified := raw.Get("verified").Bool()
	if !verified {
		for _, tag := range raw.Get("tags").Array() {
			if tag.String() == "verified" || tag.String() == "strict" {
				verified = true
				break
			}
		}
	}

	return token.Token{
		Address:  address,
		Name:     sources.StringOr(raw.Get("name"), "Unknown"),
		Symbol:   sources.StringOr(raw.Get("symbol"), "???"),
		Decimals: decimals,
		LogoURI:  raw.Get("logoURI").String(),
		Verified: verified,
		Source:   token.SourceJupiter,
	}, true
}
