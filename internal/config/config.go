// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultSecretKey is used when SECRET_KEY is not set. It is only acceptable
// for local development; Load refuses it in production mode.
const DefaultSecretKey = "development-secret-change-in-production"

// Config holds every runtime setting for the API server.
type Config struct {
	Host        string
	Port        string
	Environment string // "development" or "production"

	DatabasePath string
	SecretKey    string
	FrontendURL  string
	BackendURL   string // public base URL, used to build OAuth redirect URIs

	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string

	GeminiAPIKey string

	QdrantHost       string
	QdrantAPIKey     string
	QdrantCollection string

	SkillsDir  string
	SessionTTL time.Duration
}

// Load reads configuration from environment variables, applying development
// defaults where a value is not set.
func Load() (*Config, error) {
	cfg := &Config{
		Host:        getenv("HOST", "127.0.0.1"),
		Port:        getenv("PORT", "8000"),
		Environment: getenv("APP_ENV", "development"),

		DatabasePath: getenv("DATABASE_PATH", "huddocs.db"),
		SecretKey:    getenv("SECRET_KEY", DefaultSecretKey),
		FrontendURL:  getenv("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:   getenv("BACKEND_URL", "http://localhost:8000"),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		QdrantHost:       os.Getenv("QDRANT_HOST"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: getenv("QDRANT_COLLECTION_NAME", "ai_native_book_platform"),

		SkillsDir:  getenv("SKILLS_DIR", "skills"),
		SessionTTL: 30 * time.Minute,
	}

	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", v)
		}
		cfg.SessionTTL = time.Duration(minutes) * time.Minute
	}

	if cfg.IsProduction() && cfg.SecretKey == DefaultSecretKey {
		return nil, fmt.Errorf("SECRET_KEY must be set in production")
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode. It drives
// the Secure flag on session cookies.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
