package cache

import (
	"context"
	"errors"
	"fmt"

	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// keyPrefix Redis 鍵前綴
const keyPrefix = "bread"

// Service Redis 快取
type Service struct {
	client *redis.Client
	config config.CacheConfig
}

// NewService 連線 Redis 並確認可用
func NewService(ctx context.Context, cfg config.CacheConfig) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewServiceWithClient(client, cfg), nil
}

// NewServiceWithClient 使用既有的 Redis 連線
func NewServiceWithClient(client *redis.Client, cfg config.CacheConfig) *Service {
	return &Service{
		client: client,
		config: cfg,
	}
}

// Get 取得快取值，未命中回傳 common.ErrCacheMiss
func (s *Service) Get(ctx context.Context, namespace, payload string) (string, error) {
	if s.client == nil {
		return "", common.ErrCacheDisabled
	}

	key := s.generateKey(namespace, payload)
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss(namespace)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit(namespace)
	return data, nil
}

// Set 寫入快取值，存活時間為 cfg.TTL
func (s *Service) Set(ctx context.Context, namespace, payload, value string) error {
	if s.client == nil {
		return nil
	}

	key := s.generateKey(namespace, payload)
	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Stats 快取統計
func (s *Service) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"backend": config.CacheBackendRedis,
		"addr":    s.config.RedisAddr,
	}
	if s.client != nil {
		pool := s.client.PoolStats()
		stats["hits"] = pool.Hits
		stats["misses"] = pool.Misses
		stats["total_conns"] = pool.TotalConns
	}
	return stats
}

// Close 關閉連線
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// generateKey 生成緩存鍵，內容以雜湊表示避免鍵過長
func (s *Service) generateKey(namespace, payload string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, generateKey(namespace, payload))
}
