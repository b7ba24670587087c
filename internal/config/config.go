// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvProduction is the APP_ENV value that switches the API into production behaviour.
	EnvProduction = "production"
	// EnvDevelopment is the default APP_ENV value.
	EnvDevelopment = "development"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	AppEnv        string        `mapstructure:"APP_ENV"`
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"`
	FrontendURL   string        `mapstructure:"FRONTEND_URL"`
	MaxBodyBytes  int64         `mapstructure:"MAX_BODY_BYTES"`
	// Proxies whose X-Forwarded-For is honoured when resolving the client IP. Empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Rate limiting (per client IP)
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitIdleTTL time.Duration `mapstructure:"-"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Application Specific Configuration
	OwnerLookupConcurrency int `mapstructure:"OWNER_LOOKUP_CONCURRENCY"`

	// Cron Jobs
	ProfileBackfillJobSchedule string `mapstructure:"PROFILE_BACKFILL_JOB_SCHEDULE"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCheckRevoked          bool   `mapstructure:"FIREBASE_CHECK_REVOKED"`
	FirestoreEmulatorHost         string `mapstructure:"FIRESTORE_EMULATOR_HOST"`
	FirebaseAuthEmulatorHost      string `mapstructure:"FIREBASE_AUTH_EMULATOR_HOST"`
}

// IsProduction reports whether the API runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// UsesEmulators reports whether both Firebase emulators are configured,
// in which case no service account key is needed.
func (c *Config) UsesEmulators() bool {
	return c.FirestoreEmulatorHost != "" && c.FirebaseAuthEmulatorHost != ""
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_IDLE_SECONDS", 600)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("OWNER_LOOKUP_CONCURRENCY", 8)
	v.SetDefault("PROFILE_BACKFILL_JOB_SCHEDULE", "")

	// Firebase
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	v.SetDefault("FIREBASE_CHECK_REVOKED", false)
	v.SetDefault("FIRESTORE_EMULATOR_HOST", "")
	v.SetDefault("FIREBASE_AUTH_EMULATOR_HOST", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.RateLimitIdleTTL = time.Duration(v.GetInt("RATE_LIMIT_IDLE_SECONDS")) * time.Second

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize applies cross-field rules and validates critical settings.
func (c *Config) normalize() error {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	if c.AppEnv == "" {
		c.AppEnv = EnvDevelopment
	}
	if c.IsProduction() {
		c.GinMode = "release"
	}
	if c.OwnerLookupConcurrency <= 0 {
		c.OwnerLookupConcurrency = 1
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 << 20
	}
	if c.RateLimitIdleTTL <= 0 {
		c.RateLimitIdleTTL = 10 * time.Minute
	}
	proxies := make([]string, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	c.TrustedProxies = proxies

	if c.UsesEmulators() {
		return nil
	}
	if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
		return fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
	}
	return nil
}
