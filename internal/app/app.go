// Package app 依設定組裝各服務，API 與 CLI 共用。
package app

import (
	"context"
	"errors"
	"fmt"

	"bread-converter/internal/core/ai/cache"
	"bread-converter/internal/core/ai/openrouter"
	"bread-converter/internal/core/ai/queue"
	aiservice "bread-converter/internal/core/ai/service"
	"bread-converter/internal/core/bread"
	"bread-converter/internal/core/extract"
	"bread-converter/internal/core/image"
	"bread-converter/internal/core/recipe"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
)

// App 組裝完成的服務
type App struct {
	Config    *config.Config
	Engine    *bread.Engine
	Recipes   *recipe.Service
	Extractor *extract.Service
	Cache     cache.Store
	Queue     *queue.Manager

	client *openrouter.Client
}

// New 依設定建立服務；OpenRouter 未設定時 AI 解析與 vision OCR 皆停用
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	a.Cache = store

	a.Engine = bread.NewEngine(recipe.OptionsFromConfig(cfg.Conversion))

	var (
		ai     *aiservice.Service
		remote recipe.RemoteParser
	)
	if cfg.OpenRouter.Enabled {
		a.client = openrouter.NewClient(cfg.OpenRouter)
		ai = aiservice.NewService(cfg, a.client, store)
		if cfg.AI.ParserEnabled {
			remote = recipe.NewAIParser(ai, a.Engine)
		}
	}
	a.Recipes = recipe.NewService(a.Engine, remote, store, cfg.Conversion.StarterHydration)

	a.Queue = queue.NewManager(cfg.Queue)

	// ai 為 nil 時必須傳入 nil 介面，否則 vision 模式的檢查會失效
	var transcriber extract.Transcriber
	if ai != nil {
		transcriber = ai
	}
	a.Extractor, err = extract.NewService(cfg, image.NewService(cfg.Image), transcriber, a.Queue)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init extraction: %w", err)
	}

	common.LogInfo("服務初始化完成",
		zap.Bool("cache_enabled", store != nil),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("openrouter", cfg.OpenRouter.Enabled),
		zap.Bool("ai_parser", remote != nil),
		zap.String("ocr_provider", cfg.OCR.Provider),
		zap.Float64("starter_hydration", cfg.Conversion.StarterHydration),
	)
	return a, nil
}

// Close 依相反順序釋放資源
func (a *App) Close() error {
	var errs []error
	if a.Extractor != nil {
		errs = append(errs, a.Extractor.Close())
	}
	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	return errors.Join(errs...)
}
