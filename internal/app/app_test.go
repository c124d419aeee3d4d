package app

import (
	"context"
	"testing"

	"bread-converter/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithDefaults(t *testing.T) {
	cfg := config.Default()

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Engine)
	assert.NotNil(t, a.Cache)
	assert.False(t, a.Recipes.RemoteEnabled())
	assert.False(t, a.Extractor.ImageEnabled())
}

func TestNewAppliesConversionOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Conversion.StrictUnits = true

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Cache)
	assert.True(t, a.Engine.Options().StrictUnits)
}

func TestNewVisionRequiresOpenRouter(t *testing.T) {
	cfg := config.Default()
	cfg.OCR.Provider = config.OCRProviderVision

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewWithOpenRouter(t *testing.T) {
	cfg := config.Default()
	cfg.OpenRouter.Enabled = true
	cfg.OpenRouter.APIKey = "sk-or-test"
	cfg.AI.ParserEnabled = true
	cfg.OCR.Provider = config.OCRProviderVision

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Recipes.RemoteEnabled())
	assert.True(t, a.Extractor.ImageEnabled())
}
