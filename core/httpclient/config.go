package httpclient

// Config holds configuration for upstream HTTP calls.
type Config struct {
	// TimeoutSeconds bounds a single attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// RetryMax is the number of retries after the first attempt.
	RetryMax int `mapstructure:"retry_max" default:"4"`
	// RetryWaitMinMillis is the first backoff delay.
	RetryWaitMinMillis int `mapstructure:"retry_wait_min_ms" default:"1000"`
	// RetryWaitMaxMillis caps the exponential backoff.
	RetryWaitMaxMillis int `mapstructure:"retry_wait_max_ms" default:"16000"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"token-aggregator/1.0"`
}
