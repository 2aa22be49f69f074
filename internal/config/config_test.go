package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BUYMOVE_MODE", "")
	t.Setenv("BUYMOVE_API_URL", "")
	t.Setenv("BUYMOVE_MOCK_LATENCY_MS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Mock())
	assert.Equal(t, 300*time.Millisecond, cfg.MockLatency)
	assert.Equal(t, "buymove_store.json", cfg.StorePath)
}

func TestLoad_LiveRequiresBaseURL(t *testing.T) {
	t.Setenv("BUYMOVE_MODE", "live")
	t.Setenv("BUYMOVE_API_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Mock(), "live mode without an API URL falls back to mock")

	t.Setenv("BUYMOVE_API_URL", "https://api.example.com")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Mock())
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
}

func TestLoad_BadLatencyFallsBack(t *testing.T) {
	t.Setenv("BUYMOVE_MOCK_LATENCY_MS", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, cfg.MockLatency)
}
