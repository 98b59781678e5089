package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GATEWAY_SERVICE_TOKEN", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/marketplace")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5200", cfg.Port)
	assert.True(t, cfg.AutoCreateProgress)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.False(t, cfg.R2Enabled())
}

func TestValidate(t *testing.T) {
	cfg := &Config{SweepInterval: time.Minute, SweepEnabled: true}
	assert.Error(t, cfg.Validate(), "no store configured")

	cfg.DocumentAPIURL = "https://docs.example.com"
	assert.Error(t, cfg.Validate(), "REST store without key")

	cfg.DocumentAPIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.DBMaxIdleConns, cfg.DBMaxOpenConns = 5, 1
	assert.Error(t, cfg.Validate())
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: " https://a.io, ,https://b.io "}
	assert.Equal(t, "https://a.io,https://b.io", cfg.Origins())
}
