// Package cache 提供轉換結果與 AI 回應的快取，後端可為記憶體或 Redis。
package cache

import (
	"context"
	"fmt"

	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 快取後端
type Store interface {
	Get(ctx context.Context, namespace, payload string) (string, error)
	Set(ctx context.Context, namespace, payload, value string) error
	Stats() map[string]interface{}
	Close() error
}

var (
	_ Store = (*CacheManager)(nil)
	_ Store = (*Service)(nil)
)

// New 依設定建立快取；停用時回傳 nil
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Backend {
	case config.CacheBackendRedis:
		svc, err := NewService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.RedisAddr))
		return svc, nil
	case config.CacheBackendMemory, "":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// generateKey 命名空間加上內容雜湊
func generateKey(namespace, payload string) string {
	return namespace + ":" + common.HashParts(payload)
}
