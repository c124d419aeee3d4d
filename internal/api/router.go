package api

import (
	"fmt"
	"time"

	"bread-converter/internal/api/handlers/conversion"
	"bread-converter/internal/api/handlers/health"
	"bread-converter/internal/api/middleware"
	"bread-converter/internal/core/ai/cache"
	"bread-converter/internal/core/ai/queue"
	"bread-converter/internal/core/recipe"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由使用的服務；Extractor、Cache 與 Queue 可為 nil
type Dependencies struct {
	Recipes   *recipe.Service
	Extractor conversion.TextExtractor
	Cache     cache.Store
	Queue     *queue.Manager
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Recipes == nil {
		return nil, fmt.Errorf("recipe service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 請求體大小限制
	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由（不限流）
	healthHandler := health.NewHandler(cfg, deps.Cache, deps.Queue, deps.Recipes.RemoteEnabled())
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Handler())

	conversion.NewHandler(deps.Recipes, deps.Extractor, cfg.Image.MaxSizeBytes).Register(api)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("extraction_enabled", deps.Extractor != nil),
		zap.Bool("ai_parser", deps.Recipes.RemoteEnabled()),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
