package config

import (
	"reflect"
	"strings"

	"migration-audit/core/audit"
	"migration-audit/core/database"
	"migration-audit/core/logger"
	"migration-audit/core/notify"
	"migration-audit/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the migration audit tool.
// It is divided into partial configurations for better modularity.
type Config struct {
	// OldDatabase holds connection settings for the source (old) side.
	OldDatabase database.Config `mapstructure:"old_db"`
	// NewDatabase holds connection settings for the target (new) side.
	NewDatabase database.Config `mapstructure:"new_db"`
	// Audit holds run-scoped settings (schemas, chunk size, batch size, workers).
	Audit audit.Config `mapstructure:"audit"`
	// Storage holds settings for the optional report archive (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Notify holds settings for run notifications.
	Notify notify.Config `mapstructure:"notify"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// ResultsDir is the root directory for report output.
	ResultsDir string `mapstructure:"results_dir" default:"audit_results"`
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

	// Map environment variables to nested keys (e.g. OLD_DB_HOST -> old_db.host)
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

		// Skip if no tag or explicitly excluded
		if tag == "" || tag == "-" {
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
