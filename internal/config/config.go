package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects where vehicle and favorite data comes from.
type Mode string

const (
	// ModeMock serves everything from the bundled dataset and the local store.
	ModeMock Mode = "mock"
	// ModeLive calls the remote API and uses the local store as a write-through cache.
	ModeLive Mode = "live"
)

type Config struct {
	Mode        Mode
	APIBaseURL  string
	MockLatency time.Duration
	StorePath   string
	Redis       RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Mock reports whether the config selects mock mode.
func (c Config) Mock() bool {
	return c.Mode != ModeLive
}

// Load reads configuration from environment variables. When BUYMOVE_API_URL
// is unset the client falls back to mock mode regardless of BUYMOVE_MODE.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	mode := Mode(getEnv("BUYMOVE_MODE", string(ModeMock)))
	baseURL := os.Getenv("BUYMOVE_API_URL")
	if baseURL == "" {
		mode = ModeMock
	}

	latencyMs, err := strconv.Atoi(getEnv("BUYMOVE_MOCK_LATENCY_MS", "300"))
	if err != nil || latencyMs < 0 {
		latencyMs = 300
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	cfg := &Config{
		Mode:        mode,
		APIBaseURL:  baseURL,
		MockLatency: time.Duration(latencyMs) * time.Millisecond,
		StorePath:   getEnv("BUYMOVE_STORE_PATH", "buymove_store.json"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
	}

	return cfg, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
