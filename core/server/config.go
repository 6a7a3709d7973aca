package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ClientOrigin is the CORS allowed origin list.
	ClientOrigin string `mapstructure:"client_origin" default:"*"`
	// Env names the deployment environment.
	Env string `mapstructure:"env" default:"development"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// IsProduction reports whether the server runs in production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
