// Package redis 提供 Redis 缓存实现
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var cacheTracer = otel.Tracer("redis.cache")

// Cache 租户元数据的 Read-Through 缓存。
// 配额检查每个请求都要读租户的套餐与状态，
// 缓存未命中时经 singleflight 回源，避免击穿数据库。
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存服务
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetOrLoadSafe 读缓存，未命中时经 singleflight 调用 loader 回源并回填。
// 回填失败不报错，下次未命中会再次回源。
func (c *Cache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoadSafe",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Bytes()
	if err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return val, nil
	}
	if err != redis.Nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		// 等待期间可能已被并发请求回填
		if val, err := c.client.rdb.Get(ctx, key).Bytes(); err == nil {
			return val, nil
		}

		data, err := loader()
		if err != nil {
			return nil, err
		}
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal cached value: %w", err)
		}

		_ = c.client.rdb.Set(ctx, key, bytes, ttl).Err()
		return bytes, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result.([]byte), nil
}

// InvalidateTenant 套餐或状态变更后删除租户元数据缓存
func (c *Cache) InvalidateTenant(ctx context.Context, tenantID string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.InvalidateTenant",
		trace.WithAttributes(attribute.String("tenant_id", tenantID)))
	defer span.End()

	return c.client.rdb.Del(ctx, TenantCacheKey(tenantID)).Err()
}

// TenantCacheKey 租户元数据缓存键
func TenantCacheKey(tenantID string) string {
	return "tenant:" + tenantID
}
