package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional token cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Token configuration
	TokenSecret string
	// TokenTTL of zero means tokens never expire, which matches the
	// historical behavior of the API. Set it to harden deployments.
	TokenTTL time.Duration

	// Media storage configuration
	MediaBackend string // "local" or "s3"
	MediaRoot    string
	S3Bucket     string

	// CORS
	AllowedOrigin string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker-style secret files in production.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	get := getenv
	if env == Production {
		get = func(key, fallback string) string {
			if v := readSecret(strings.ToLower(key)); v != "" {
				return v
			}
			return getenv(key, fallback)
		}
	}

	cfg := &Config{
		ServerHost:    get("SERVER_HOST", "0.0.0.0"),
		ServerPort:    get("SERVER_PORT", "8080"),
		DBHost:        get("DB_HOST", "localhost"),
		DBPort:        get("DB_PORT", "5432"),
		DBUser:        get("DB_USER", "postgres"),
		DBPassword:    get("DB_PASSWORD", ""),
		DBName:        get("DB_NAME", "savora"),
		DBSSLMode:     get("DB_SSL_MODE", "disable"),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		RedisDB:       0,
		TokenSecret:   get("TOKEN_SECRET", ""),
		MediaBackend:  get("MEDIA_BACKEND", "local"),
		MediaRoot:     get("MEDIA_ROOT", "media"),
		S3Bucket:      get("S3_BUCKET_NAME", ""),
		AllowedOrigin: get("ALLOWED_ORIGIN", "http://localhost:5173"),
	}

	if ttl := get("TOKEN_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
		}
		cfg.TokenTTL = d
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
