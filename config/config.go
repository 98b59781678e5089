// Package config loads service settings from the environment.
// A local .env file is honoured when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// --- HTTP ---
	Port           string `envconfig:"PORT" default:"5200"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	// Bearer token every request must carry (the gateway injects it).
	GatewayToken string `envconfig:"GATEWAY_SERVICE_TOKEN" required:"true"`

	// --- Application ---
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`

	// --- Document store ---
	// DATABASE_URL selects the Postgres-backed store; DOCUMENT_API_URL the hosted REST store.
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	DocumentAPIURL string `envconfig:"DOCUMENT_API_URL"`
	DocumentAPIKey string `envconfig:"DOCUMENT_API_KEY"`
	DBMaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`

	// --- Redis (optional, distributed per-user lock) ---
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	LockTTL       time.Duration `envconfig:"ACHIEVEMENTS_LOCK_TTL" default:"15s"`

	// --- R2 icon storage (optional) ---
	R2AccountID       string `envconfig:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `envconfig:"R2_ACCESS_KEY_SECRET"`
	R2BucketName      string `envconfig:"R2_BUCKET_NAME"`
	CDNBaseURL        string `envconfig:"CDN_BASE_URL"`

	// --- Achievements ---
	AutoCreateProgress bool          `envconfig:"ACHIEVEMENTS_AUTO_CREATE_PROGRESS" default:"true"`
	SweepInterval      time.Duration `envconfig:"ACHIEVEMENTS_SWEEP_INTERVAL" default:"15m"`
	SweepEnabled       bool          `envconfig:"ACHIEVEMENTS_SWEEP_ENABLED" default:"true"`
}

// Load reads .env (if any) and the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.DocumentAPIURL == "" {
		return fmt.Errorf("either DATABASE_URL or DOCUMENT_API_URL must be set")
	}
	if c.DocumentAPIURL != "" && c.DocumentAPIKey == "" {
		return fmt.Errorf("DOCUMENT_API_KEY is required with DOCUMENT_API_URL")
	}
	if c.SweepEnabled && c.SweepInterval <= 0 {
		return fmt.Errorf("ACHIEVEMENTS_SWEEP_INTERVAL must be > 0")
	}
	if c.DBMaxIdleConns > c.DBMaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must not exceed DB_MAX_OPEN_CONNS")
	}
	return nil
}

// Origins returns ALLOWED_ORIGINS normalised for fiber's CORS middleware.
func (c *Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// R2Enabled reports whether icon storage credentials are complete.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}
