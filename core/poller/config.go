package poller

// Config holds the push loop settings.
type Config struct {
	// IntervalSeconds is the time between ticks.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"10"`
	// PriceThreshold is the relative price move that marks a token as changed.
	PriceThreshold float64 `mapstructure:"price_threshold" default:"0.01"`
	// VolumeThreshold is the 1h volume ratio that marks a token as changed.
	VolumeThreshold float64 `mapstructure:"volume_threshold" default:"1.2"`
}
