package aggregator

// Config holds aggregation settings.
type Config struct {
	// CacheKey is the fixed key snapshots are cached under.
	CacheKey string `mapstructure:"cache_key" default:"tokens:all"`
	// CacheTTLSeconds is the lifetime of a cached snapshot in both tiers.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"15"`
}
