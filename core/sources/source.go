package sources

import (
	"context"
	"errors"
	"fmt"

	"token-aggregator/core/token"
)

// ErrSourceUnavailable marks a failed fetch from a single upstream.
var ErrSourceUnavailable = errors.New("source unavailable")

// Kind tells the reconciler how to treat a source's records.
type Kind int

const (
	// KindMarket sources create canonical records.
	KindMarket Kind = iota
	// KindMetadata sources only decorate records created by market sources.
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindMarket:
		return "market"
	case KindMetadata:
		return "metadata"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Source is one upstream provider.
type Source interface {
	// Name identifies the provider in records, logs and metrics.
	Name() token.Source
	// Kind reports whether the provider creates or only decorates records.
	Kind() Kind
	// Fetch returns the normalized records of one cycle or an error.
	Fetch(ctx context.Context) ([]token.Token, error)
}

// Result is the settled outcome of one Source.Fetch call.
type Result struct {
	Source token.Source
	Kind   Kind
	Tokens []token.Token
	Err    error
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Unavailable wraps a provider failure so callers can match ErrSourceUnavailable.
func Unavailable(name token.Source, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
}
