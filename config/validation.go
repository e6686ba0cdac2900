package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the loaded configuration is usable before
// the server starts. Missing values fail fast here instead of surfacing
// as connection errors later.
func ValidateConfig(cfg *Config) error {
	var missing []string

	if cfg.ServerPort == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.DBHost == "" {
		missing = append(missing, "DB_HOST")
	}
	if cfg.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if cfg.TokenSecret == "" {
		missing = append(missing, "TOKEN_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch cfg.MediaBackend {
	case "local":
		if cfg.MediaRoot == "" {
			return fmt.Errorf("MEDIA_ROOT is required for the local media backend")
		}
	case "s3":
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("unknown media backend: %s", cfg.MediaBackend)
	}

	if cfg.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative")
	}

	return nil
}
