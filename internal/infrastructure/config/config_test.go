package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, OCRProviderNone, cfg.OCR.Provider)
	assert.Equal(t, 100.0, cfg.Conversion.StarterHydration)
	assert.False(t, cfg.Conversion.StrictUnits)
	assert.False(t, cfg.Conversion.FoldStarterFlour)
	assert.False(t, cfg.OpenRouter.Enabled, "no API key disables OpenRouter")
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test-key-1234")
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("STARTER_HYDRATION", "75")
	t.Setenv("STRICT_UNITS", "true")
	t.Setenv("FOLD_STARTER_FLOUR", "true")
	t.Setenv("OCR_PROVIDER", "vision")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.OpenRouter.Enabled)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 75.0, cfg.Conversion.StarterHydration)
	assert.True(t, cfg.Conversion.StrictUnits)
	assert.True(t, cfg.Conversion.FoldStarterFlour)
	assert.Equal(t, OCRProviderVision, cfg.OCR.Provider)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown cache backend", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"unknown OCR provider", map[string]string{"OCR_PROVIDER": "abbyy"}},
		{"vision without key", map[string]string{"OCR_PROVIDER": "vision"}},
		{"hydration out of range", map[string]string{"STARTER_HYDRATION": "0"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100.0, cfg.Conversion.StarterHydration)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.NoError(t, validateConfig(cfg))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-o...5678", MaskAPIKey("sk-or-12345678"))
}
