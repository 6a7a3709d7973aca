package sources

import (
	"context"

	"github.com/tidwall/gjson"
)

// JSONGetter is the transport HTTP-backed sources depend on.
// core/httpclient.Client satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string) (gjson.Result, error)
}

// NonNegative clamps upstream numerics that must not go below zero.
func NonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// StringOr returns the value or the fallback when it is empty.
func StringOr(r gjson.Result, fallback string) string {
	if s := r.String(); s != "" {
		return s
	}
	return fallback
}
