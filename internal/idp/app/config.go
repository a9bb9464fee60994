package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
)

type Config struct {
	Issuer        string // Required: issuer claim for tokens and discovery document
	SigningSecret string // Required: HMAC secret the signing key is derived from

	ClientID         string   // Required: the single registered OAuth2 client
	ClientSecret     string   // Required: its confidential secret
	AllowedRedirects []string // Required: redirect_uri prefix allow-list

	AuthorityURL        string // Required: external credential authority endpoint
	DirectoryURL        string // Optional: profile directory base URL
	DirectoryServiceKey string // Optional: service key for the directory admin API

	CodeTTL        time.Duration // Optional: authorization code lifetime (default: 10m)
	AccessTokenTTL time.Duration // Optional: access/ID token lifetime (default: 1h)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired code sweep interval (default: 5m)
}

func LoadConfig() Config {
	return Config{
		Issuer:        os.Getenv("IDP_ISSUER"),
		SigningSecret: os.Getenv("IDP_JWT_SECRET"),

		ClientID:         os.Getenv("IDP_CLIENT_ID"),
		ClientSecret:     os.Getenv("IDP_CLIENT_SECRET"),
		AllowedRedirects: splitList(os.Getenv("IDP_ALLOWED_REDIRECTS")),

		AuthorityURL:        os.Getenv("IDP_AUTHORITY_URL"),
		DirectoryURL:        os.Getenv("IDP_DIRECTORY_URL"),
		DirectoryServiceKey: os.Getenv("IDP_DIRECTORY_SERVICE_KEY"),

		CodeTTL:        getEnvDurationOrDefault("IDP_CODE_TTL", store.DefaultCodeTTL),
		AccessTokenTTL: getEnvDurationOrDefault("IDP_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
	}
}

// Validate reports the first missing required setting.
func (cfg Config) Validate() error {
	switch {
	case cfg.Issuer == "":
		return errors.New("IDP_ISSUER is required")
	case cfg.SigningSecret == "":
		return errors.New("IDP_JWT_SECRET is required")
	case cfg.ClientID == "":
		return errors.New("IDP_CLIENT_ID is required")
	case cfg.ClientSecret == "":
		return errors.New("IDP_CLIENT_SECRET is required")
	case len(cfg.AllowedRedirects) == 0:
		return errors.New("IDP_ALLOWED_REDIRECTS is required")
	case cfg.AuthorityURL == "":
		return errors.New("IDP_AUTHORITY_URL is required")
	}
	return nil
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
