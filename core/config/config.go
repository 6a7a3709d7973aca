package config

import (
	"reflect"
	"strings"

	"token-aggregator/core/aggregator"
	"token-aggregator/core/broadcast"
	"token-aggregator/core/database"
	"token-aggregator/core/httpclient"
	"token-aggregator/core/logger"
	"token-aggregator/core/metrics"
	"token-aggregator/core/poller"
	"token-aggregator/core/query"
	"token-aggregator/core/redis"
	"token-aggregator/core/server"
	"token-aggregator/core/sources/dexscreener"
	"token-aggregator/core/sources/jupiter"
	"token-aggregator/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Redis holds the distributed cache tier connection.
	Redis redis.Config `mapstructure:"redis"`
	// Aggregator holds the cache key and TTL.
	Aggregator aggregator.Config `mapstructure:"aggregator"`
	// Poller holds the push loop interval and change thresholds.
	Poller poller.Config `mapstructure:"poller"`
	// Query holds pagination limits.
	Query query.Config `mapstructure:"query"`
	// Sources holds the upstream provider settings.
	Sources SourcesConfig `mapstructure:"sources"`
	// Database holds the optional curated metadata database.
	Database database.Config `mapstructure:"database"`
	// Storage holds the optional token list bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Kafka holds the optional event stream.
	Kafka broadcast.KafkaConfig `mapstructure:"kafka"`
	// Metrics holds the Prometheus settings.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// SourcesConfig groups the HTTP-backed providers and their shared transport.
type SourcesConfig struct {
	// HTTP configures the retrying client shared by HTTP sources.
	HTTP httpclient.Config `mapstructure:"http"`
	// DexScreener is the primary market data source.
	DexScreener dexscreener.Config `mapstructure:"dexscreener"`
	// Jupiter is the token registry.
	Jupiter jupiter.Config `mapstructure:"jupiter"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
