package metrics

// Config holds metrics settings.
type Config struct {
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"token_aggregator"`
}
