package redis

// Config holds the distributed cache tier connection settings.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Username is the ACL user, empty for the default user.
	Username string `mapstructure:"username" default:""`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the logical database index.
	DB int `mapstructure:"db" default:"0"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size" default:"10"`
	// DialTimeoutSeconds bounds establishing a new connection.
	DialTimeoutSeconds int `mapstructure:"dial_timeout_seconds" default:"5"`
	// HealthIntervalSeconds is how often reachability is re-checked.
	HealthIntervalSeconds int `mapstructure:"health_interval_seconds" default:"5"`
}
