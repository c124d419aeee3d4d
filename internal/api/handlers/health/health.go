package health

import (
	"net/http"
	"runtime"
	"time"

	"bread-converter/internal/core/ai/cache"
	"bread-converter/internal/core/ai/queue"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Runtime    map[string]interface{} `json:"runtime"`
	Components map[string]interface{} `json:"components"`
	Cache      map[string]interface{} `json:"cache,omitempty"`
	Queue      *queue.Status          `json:"queue,omitempty"`
}

// Handler 健康檢查處理器；cache 與 queue 可為 nil
type Handler struct {
	cfg      *config.Config
	cache    cache.Store
	queue    *queue.Manager
	aiParser bool
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, store cache.Store, q *queue.Manager, aiParser bool) *Handler {
	return &Handler{cfg: cfg, cache: store, queue: q, aiParser: aiParser}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Components: h.components(),
	}

	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}
	if h.queue != nil {
		status := h.queue.Status()
		response.Queue = &status
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 擷取隊列已滿時回報尚未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.queue != nil {
		if s := h.queue.Status(); s.MaxQueueSize > 0 && s.QueueLength >= s.MaxQueueSize {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "busy",
				"queue":  s,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": h.components(),
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (h *Handler) components() map[string]interface{} {
	cacheBackend := "disabled"
	if h.cache != nil {
		cacheBackend = h.cfg.Cache.Backend
	}
	return map[string]interface{}{
		"cache":        cacheBackend,
		"ocr_provider": h.cfg.OCR.Provider,
		"ai_parser":    h.aiParser,
		"openrouter":   h.cfg.OpenRouter.Enabled,
	}
}
