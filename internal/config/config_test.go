package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
)

func TestLoad(t *testing.T) {
	// Test default values
	t.Setenv("PORT", "")
	t.Setenv("OAUTH_REDIRECT_URI", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("DRIVE_COMPENSATE", "")
	t.Setenv("TOKEN_STORE", "")
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultRedirectURI, cfg.RedirectURI)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/drive.file"}, cfg.Scopes)
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.TokenURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.False(t, cfg.Compensate)
	assert.Equal(t, "memory", cfg.TokenStore)

	// Test environment variable override
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("DRIVE_COMPENSATE", "true")
	t.Setenv("TOKEN_STORE", "sqlite")

	cfg = Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.Compensate)
	assert.Equal(t, "sqlite", cfg.TokenStore)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, apperr.Configuration, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_SECRET")

	cfg = &Config{ClientID: "id", ClientSecret: "secret"}
	assert.NoError(t, cfg.Validate())
}

func TestGetEnv(t *testing.T) {
	// Test default value
	assert.Equal(t, "default", getEnv("NONEXISTENT_VAR", "default"))

	// Test environment variable
	t.Setenv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", getEnv("TEST_VAR", "default"))

	t.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, int64(7), getInt64("TEST_INT", 7))
}
