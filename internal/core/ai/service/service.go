package service

import (
	"context"
	"fmt"
	"strings"

	"bread-converter/internal/core/ai/cache"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// cacheNamespace AI 回應的快取命名空間
const cacheNamespace = "ai"

// Completer 模型呼叫
type Completer interface {
	GenerateResponse(ctx context.Context, system, prompt, imageData string) (string, error)
}

// Response AI 回應
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務：快取與呼叫頻率控制
type Service struct {
	completer Completer
	cache     cache.Store
	limiter   *rate.Limiter
}

// NewService 創建 AI 服務，store 可為 nil
func NewService(cfg *config.Config, completer Completer, store cache.Store) *Service {
	s := &Service{
		completer: completer,
		cache:     store,
	}
	if cfg.AI.MinInterval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.AI.MinInterval), 1)
	}
	return s
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, system, prompt, imageData string) (*Response, error) {
	if s.completer == nil {
		return nil, common.ErrAIServiceError
	}

	prompt = strings.TrimSpace(prompt)
	payload := strings.Join([]string{system, prompt, imageData}, "\x00")

	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cacheNamespace, payload); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, common.ErrTooManyRequests.Wrap(fmt.Errorf("waiting for AI rate limit: %w", err))
		}
	}

	content, err := s.completer.GenerateResponse(ctx, system, prompt, imageData)
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheNamespace, payload, content); err != nil {
			common.LogWarn("AI 回應寫入快取失敗", zap.Error(err))
		}
	}

	return &Response{Content: content}, nil
}
