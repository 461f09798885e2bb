// Package config provides configuration management for the migration audit
// tool.
//
// It utilizes Viper for loading configuration from environment variables
// and a local .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided
// into subsections:
//   - OldDatabase / NewDatabase: connection details for the two sides
//   - Audit: schema names, chunk size, batch size, worker count
//   - Storage: optional S3/MinIO report archive
//   - Notify: run notification settings
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Audit.ChunkSize)
package config
