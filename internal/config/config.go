package config

import (
	"errors"
	"os"
)

// Config holds the environment-driven settings for the server.
type Config struct {
	APIToken string // MIST_APITOKEN, required
	OrgID    string // MIST_ORG_ID, auto-detected when empty
	Host     string // MIST_HOST
	LogLevel string // LOG_LEVEL
	WebHost  string // WEB_HOST
	WebPort  string // WEB_PORT
}

// getEnv fetches environment variable or returns fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment. A missing API token is
// the only fatal condition.
func Load() (Config, error) {
	cfg := Config{
		APIToken: os.Getenv("MIST_APITOKEN"),
		OrgID:    os.Getenv("MIST_ORG_ID"),
		Host:     getEnv("MIST_HOST", "api.mist.com"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		WebHost:  getEnv("WEB_HOST", "0.0.0.0"),
		WebPort:  getEnv("WEB_PORT", "8080"),
	}

	if cfg.APIToken == "" {
		return Config{}, errors.New("MIST_APITOKEN environment variable is required")
	}
	return cfg, nil
}
