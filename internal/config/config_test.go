package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, ":8000", cfg.BindAddr())
	assert.Equal(t, 30*time.Second, cfg.MLServiceTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ChatHistoryTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "ragproxy", cfg.MetricsNamespace)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ML_SERVICE_URL", "https://ml.example.com/ ")
	t.Setenv("ML_SERVICE_API_KEY", " secret ")
	t.Setenv("CHAT_HISTORY_TTL", "1h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://ml.example.com", cfg.MLServiceURL)
	assert.Equal(t, "secret", cfg.MLServiceAPIKey)
	assert.Equal(t, time.Hour, cfg.ChatHistoryTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("CHAT_HISTORY_TTL", "-5m")
	_, err := Load()
	require.Error(t, err)
}

func TestWarnings(t *testing.T) {
	cfg := Config{}
	w := cfg.Warnings()
	assert.Len(t, w, 3)

	cfg = Config{MLServiceURL: "https://ml.example.com", MLServiceAPIKey: "k", RedisURL: "redis://localhost:6379/0"}
	assert.Empty(t, cfg.Warnings())
}
