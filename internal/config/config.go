// Package config provides centralized configuration loaded from environment
// variables, plus the optional YAML favorites file. Shared by both cmd/api
// and cmd/fetch.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (inbound API)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Fetch scheduling
	FetchMinInterval       time.Duration
	FetchTimeout           time.Duration
	BackoffBase            time.Duration
	BackoffMax             time.Duration
	MaxConsecutiveFailures int

	// Outbound throttling of guide-site requests
	SourceRequestsPerMinute int

	// Snapshot cache
	SnapshotTTL     time.Duration
	RefreshInterval time.Duration
	SnapshotPath    string // last-known-good file; empty disables

	// Favorites
	FavoritesFile string
	Favorites     Favorites
}

// Load reads configuration from environment variables with sensible defaults
// and, when FAVORITES_FILE is set, the favorites YAML.
func Load() (*Config, error) {
	cfg := &Config{
		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8123", // Home Assistant default
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		FetchMinInterval:       time.Duration(envInt("FETCH_MIN_INTERVAL_MINUTES", 15)) * time.Minute,
		FetchTimeout:           time.Duration(envInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		BackoffBase:            time.Duration(envInt("BACKOFF_BASE_SECONDS", 60)) * time.Second,
		BackoffMax:             time.Duration(envInt("BACKOFF_MAX_MINUTES", 120)) * time.Minute,
		MaxConsecutiveFailures: envInt("MAX_CONSECUTIVE_FAILURES", 5),

		SourceRequestsPerMinute: envInt("SOURCE_REQUESTS_PER_MINUTE", 10),

		SnapshotTTL:     time.Duration(envInt("SNAPSHOT_TTL_MINUTES", 30)) * time.Minute,
		RefreshInterval: time.Duration(envInt("REFRESH_INTERVAL_MINUTES", 30)) * time.Minute,
		SnapshotPath:    envOr("SNAPSHOT_PATH", ""),

		FavoritesFile: envOr("FAVORITES_FILE", ""),
	}

	if cfg.FavoritesFile != "" {
		fav, err := LoadFavorites(cfg.FavoritesFile)
		if err != nil {
			return nil, fmt.Errorf("load favorites: %w", err)
		}
		cfg.Favorites = fav
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Favorites file
// --------------------------------------------------------------------------

// Favorites holds the user's filter lists. All matching is case-insensitive
// substring matching against the event's fields.
type Favorites struct {
	Sports   []string `yaml:"sports"`
	Teams    []string `yaml:"teams"`
	Leagues  []string `yaml:"leagues"`
	Titles   []string `yaml:"titles"`
	Channels []string `yaml:"channels"`
}

// Empty reports whether no favorite criteria are configured.
func (f Favorites) Empty() bool {
	return len(f.Sports) == 0 && len(f.Teams) == 0 && len(f.Leagues) == 0 &&
		len(f.Titles) == 0 && len(f.Channels) == 0
}

// LoadFavorites reads a favorites YAML file.
func LoadFavorites(path string) (Favorites, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Favorites{}, err
	}
	var f Favorites
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Favorites{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
