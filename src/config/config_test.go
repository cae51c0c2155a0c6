package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/voicepay")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "openrouter", cfg.LLMProvider)
	assert.Equal(t, 20*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsDemo)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("LLM_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DEMO_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 3*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDemo)
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.LLMTimeout)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_PROVIDER", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}
