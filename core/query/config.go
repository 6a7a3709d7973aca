package query

// Config holds pagination limits.
type Config struct {
	// DefaultLimit applies when the caller gives no usable limit.
	DefaultLimit int `mapstructure:"default_limit" default:"20"`
	// MaxLimit caps the page size.
	MaxLimit int `mapstructure:"max_limit" default:"100"`
}

// Limit normalizes a caller-supplied page size.
func (c Config) Limit(requested int) int {
	def := c.DefaultLimit
	if def <= 0 {
		def = 20
	}
	if requested <= 0 {
		requested = def
	}
	if c.MaxLimit > 0 && requested > c.MaxLimit {
		return c.MaxLimit
	}
	return requested
}
