package config

import (
	"reflect"
	"strings"

	"relation-matcher/core/cache"
	"relation-matcher/core/database"
	"relation-matcher/core/engine"
	"relation-matcher/core/logger"
	"relation-matcher/core/pool"
	"relation-matcher/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the table source connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object source (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Pool holds configuration for the query worker pool.
	Pool pool.Config `mapstructure:"pool"`
	// Cache holds configuration for the shared cache store.
	Cache cache.Config `mapstructure:"cache"`
	// Match holds the defaults applied to every matcher.
	Match engine.MatchConfig `mapstructure:"match"`
}

// Engine returns the engine section of the configuration.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Pool:  c.Pool,
		Cache: c.Cache,
		Match: c.Match,
	}
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. POOL_WORKERS -> pool.workers)
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
