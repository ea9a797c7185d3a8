// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Errors for required settings
var (
	ErrMissingProviderURL = errors.New("PROVIDER_URL is required")
	ErrMissingProviderKey = errors.New("PROVIDER_KEY is required")
)

// Config holds every server setting
type Config struct {
	// ProviderURL selects the storage backend: memory://, redis://... or postgres://...
	ProviderURL string
	// ProviderKey is the key API clients send in the apikey header
	ProviderKey string

	// DatabaseURL is the backend's own connection used by /api/test (optional)
	DatabaseURL string
	// AdminSetupToken guards the bootstrap endpoint; empty disables it
	AdminSetupToken string

	TokenSecret  string
	ResendAPIKey string
	EmailFrom    string
	PublicURL    string

	Port          string
	CSRFKey       string
	SecureCookies bool
}

// Load reads .env if present, then the process environment
func Load(logger *slog.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function such as os.LookupEnv
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, defaultVal string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return defaultVal
	}

	cfg := Config{
		ProviderURL:     get("PROVIDER_URL", ""),
		ProviderKey:     get("PROVIDER_KEY", ""),
		DatabaseURL:     get("DATABASE_URL", ""),
		AdminSetupToken: get("ADMIN_SETUP_TOKEN", ""),
		TokenSecret:     get("TOKEN_SECRET", ""),
		ResendAPIKey:    get("RESEND_API_KEY", ""),
		EmailFrom:       get("EMAIL_FROM", "CS2 Coach <noreply@cs2coach.local>"),
		PublicURL:       get("PUBLIC_URL", ""),
		Port:            get("PORT", "8080"),
		CSRFKey:         get("CSRF_KEY", ""),
	}
	cfg.SecureCookies, _ = strconv.ParseBool(get("SECURE_COOKIES", "false"))

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}

	if cfg.ProviderURL == "" {
		return cfg, ErrMissingProviderURL
	}
	if cfg.ProviderKey == "" {
		return cfg, ErrMissingProviderKey
	}
	return cfg, nil
}

// Addr returns the listen address for Port
func (c Config) Addr() string {
	return ":" + c.Port
}
