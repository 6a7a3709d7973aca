// Package config provides configuration management for the token aggregator.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, CORS origin, environment name
//   - Log: Logging level and format
//   - Redis: distributed cache tier
//   - Aggregator: cache key and TTL
//   - Poller: interval and change thresholds
//   - Query: default and maximum page size
//   - Sources: upstream URLs and retrying HTTP transport
//   - Database, Storage: optional metadata sources
//   - Kafka: optional event stream
//   - Metrics: Prometheus namespace
//
// Environment variables map to nested keys by replacing dots with underscores,
// e.g. POLLER_INTERVAL_SECONDS -> poller.interval_seconds.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
