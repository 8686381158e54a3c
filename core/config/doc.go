// Package config provides configuration management for the relation matcher.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of every
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Log: Logging level and format
//   - Database: MySQL or SQLite connection for table sources
//   - Storage: S3/MinIO credentials and bucket for object sources
//   - Pool: Query worker count, queue size and label
//   - Cache: Store backend (memory, redis) and Redis settings
//   - Match: Batch size, parallelism and retry defaults
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng, err := engine.New(cfg.Engine(), log)
package config
