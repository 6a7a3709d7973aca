package token

import "time"

// Source identifies the upstream that produced a record.
type Source string

const (
	SourceDexScreener Source = "dexscreener"
	SourceJupiter     Source = "jupiter"
	SourceCurated     Source = "curated"
	SourceTokenList   Source = "tokenlist"
)

// Token is the canonical per-address record.
// Optional upstream fields are normalized to their zero value, never left unset.
type Token struct {
	// Address is the globally unique identity of the token.
	Address string `json:"tokenAddress"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`

	PriceUSD       float64 `json:"priceUsd"`
	PriceChange1h  float64 `json:"priceChange1h"`
	PriceChange24h float64 `json:"priceChange24h"`
	PriceChange7d  float64 `json:"priceChange7d"`

	Volume1h  float64 `json:"volume1h"`
	Volume24h float64 `json:"volume24h"`
	Liquidity float64 `json:"liquidity"`
	MarketCap float64 `json:"marketCap"`

	LogoURI  string `json:"logoUri"`
	Verified bool   `json:"verified"`
	Decimals int    `json:"decimals,omitempty"`

	// PairAddress, DexID and ChainID describe the trading pair that supplied the price.
	PairAddress string `json:"pairAddress,omitempty"`
	DexID       string `json:"dexId,omitempty"`
	ChainID     string `json:"chainId,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
	// Source is the adapter that produced the winning price fields.
	Source Source `json:"source"`
}

// ChangeSet holds the tokens of a new snapshot that moved enough to be pushed.
type ChangeSet []Token

// Snapshot is the output of one completed aggregation cycle.
type Snapshot struct {
	Tokens    []Token   `json:"tokens"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSnapshot wraps tokens produced at the given time.
func NewSnapshot(tokens []Token, createdAt time.Time) *Snapshot {
	if tokens == nil {
		tokens = []Token{}
	}
	return &Snapshot{Tokens: tokens, CreatedAt: createdAt}
}

// Len returns the number of tokens, treating a nil snapshot as empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tokens)
}

// Find returns the token with the given address.
func (s *Snapshot) Find(address string) (Token, bool) {
	if s == nil {
		return Token{}, false
	}
	for _, t := range s.Tokens {
		if t.Address == address {
			return t, true
		}
	}
	return Token{}, false
}

// Age reports how long ago the snapshot was produced.
func (s *Snapshot) Age(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return now.Sub(s.CreatedAt)
}
