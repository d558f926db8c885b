// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default endpoint paths and timeouts, mirroring what the Roam backend is
// deployed with. The itinerary timeout is deliberately long: the server runs
// AI vision over every photo in the batch before answering.
const (
	DefaultAPIPrefix        = "/api"
	DefaultItineraryPath    = "/ai/generate-itinerary"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultItineraryTimeout = 120 * time.Second
)

// Config holds all configuration values for the Roam client and the local
// stub server. Values are populated by Load from environment variables.
type Config struct {
	// BaseURL is the Roam backend origin, e.g. "https://api.roam.app". Required.
	BaseURL string

	// APIPrefix is prepended to every endpoint path. Defaults to "/api".
	APIPrefix string

	// AuthToken is the bearer token sent in the Authorization header.
	// May be empty when AuthRequired is false.
	AuthToken string

	// AuthRequired controls whether requests fail immediately when no token
	// is configured. Defaults to true. Some backend deployments accept
	// unauthenticated uploads; set ROAM_AUTH_REQUIRED=false for those.
	AuthRequired bool

	// RequestTimeout applies to the photo upload request. Defaults to 30s.
	RequestTimeout time.Duration

	// ItineraryTimeout applies to the itinerary generation request.
	// Defaults to 120s — AI vision processing is slow by nature.
	ItineraryTimeout time.Duration

	// ItineraryPath selects the generation endpoint. Defaults to
	// "/ai/generate-itinerary"; older deployments use "/ai/itinerary".
	ItineraryPath string

	// DatabaseURL is the Postgres connection string for the local vacation
	// store. Optional — when empty, reconciled vacations are not persisted.
	DatabaseURL string

	// Port is the TCP port the stub server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins for the
	// stub server. Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		APIPrefix:        getEnv("ROAM_API_PREFIX", DefaultAPIPrefix),
		AuthToken:        os.Getenv("ROAM_AUTH_TOKEN"),
		ItineraryPath:    getEnv("ROAM_ITINERARY_PATH", DefaultItineraryPath),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AuthRequired:     getEnvBool("ROAM_AUTH_REQUIRED", true),
		RequestTimeout:   getEnvDuration("ROAM_REQUEST_TIMEOUT", DefaultRequestTimeout),
		ItineraryTimeout: getEnvDuration("ROAM_ITINERARY_TIMEOUT", DefaultItineraryTimeout),
	}

	var missing []string

	cfg.BaseURL = os.Getenv("ROAM_BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "ROAM_BASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvBool parses the named variable with strconv.ParseBool.
// Unset, empty, or unparseable values yield the fallback.
func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration parses the named variable with time.ParseDuration
// (e.g. "45s", "2m"). Unset or unparseable values yield the fallback.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
