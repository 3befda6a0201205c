package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// OAuthProviderSettings holds the per-provider credentials and enable flag
// read once at startup.
type OAuthProviderSettings struct {
	Enabled      bool
	ClientID     string
	ClientSecret string
}

type Config struct {
	AppEnv  string
	Port    string
	SiteURL string

	DatabaseURL string
	JWTSecret   string

	JWTAccessExpiry      time.Duration
	JWTRefreshExpiry     time.Duration
	SessionRefreshWindow time.Duration
	RecoveryTokenExpiry  time.Duration
	TokenCleanupInterval time.Duration

	MinPriceRecords int64

	// NotificationLimits caps stored notifications per tier; -1 is unlimited.
	NotificationLimits map[string]int

	Google   OAuthProviderSettings
	Facebook OAuthProviderSettings
	GitHub   OAuthProviderSettings
	Apple    OAuthProviderSettings
}

// Load reads configuration from the environment (and .env if present).
// DATABASE_URL and JWT_SECRET are required; a missing value is a startup
// failure, not something to recover from at request time.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		SiteURL:     getEnv("SITE_URL", "http://localhost:8080"),
		DatabaseURL: databaseURL,
		JWTSecret:   jwtSecret,

		JWTAccessExpiry:      getDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		JWTRefreshExpiry:     getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
		SessionRefreshWindow: getDuration("SESSION_REFRESH_WINDOW", time.Hour),
		RecoveryTokenExpiry:  getDuration("RECOVERY_TOKEN_EXPIRY", time.Hour),
		TokenCleanupInterval: getDuration("TOKEN_CLEANUP_INTERVAL", time.Hour),

		MinPriceRecords: getInt64("MIN_PRICE_RECORDS", 50000),

		NotificationLimits: map[string]int{
			"freemium": 5,
			"silver":   50,
			"gold":     -1,
		},

		Google: OAuthProviderSettings{
			Enabled:      getBool("OAUTH_GOOGLE_ENABLED", false),
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		Facebook: OAuthProviderSettings{
			Enabled:      getBool("OAUTH_FACEBOOK_ENABLED", false),
			ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		},
		GitHub: OAuthProviderSettings{
			Enabled:      getBool("OAUTH_GITHUB_ENABLED", false),
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		},
		Apple: OAuthProviderSettings{
			Enabled:      getBool("OAUTH_APPLE_ENABLED", false),
			ClientID:     os.Getenv("APPLE_CLIENT_ID"),
			ClientSecret: os.Getenv("APPLE_CLIENT_SECRET"),
		},
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
