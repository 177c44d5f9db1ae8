package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// slidingWindowScript 在一次往返里完成过期清理、计数与记录。
// KEYS[1] 窗口 ZSet；ARGV: 窗口起点(ms)、当前时间(ms)、上限、成员、TTL(s)。
// 返回 1 表示放行并已记录本次请求。
var slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
redis.call('EXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RateLimiter 滑动窗口限流器。
// 清理、判定、记录在服务端脚本里原子完成，
// 多网关实例共享同一个窗口时不会超卖。
type RateLimiter struct {
	client *Client
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow 判定 key 在窗口内是否还有配额，放行时记录本次请求
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	now := time.Now().UnixMilli()
	ttl := int64((window * 2).Seconds())
	if ttl < 1 {
		ttl = 1
	}

	allowed, err := slidingWindowScript.Run(ctx, l.client.rdb, []string{key},
		now-window.Milliseconds(),
		now,
		limit,
		uuid.NewString(),
		strconv.FormatInt(ttl, 10),
	).Int()
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("ratelimit.allowed", allowed == 1))
	return allowed == 1, nil
}
