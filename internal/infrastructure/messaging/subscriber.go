// Package messaging 提供基于 Redis Streams 的消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/pkg/logger"
	"viralspark-api/pkg/metrics"
)

// ChatSubscriber 实时消息流订阅端。
// 每个连接独立从流尾部阻塞读取，不走消费者组，
// 漏读由客户端的历史加载兜底。
type ChatSubscriber struct {
	client       *redis.Client
	blockTimeout time.Duration
}

// NewChatSubscriber 创建实时流订阅端
func NewChatSubscriber(client *redis.Client, blockTimeout time.Duration) *ChatSubscriber {
	if blockTimeout <= 0 {
		blockTimeout = 5 * time.Second
	}
	return &ChatSubscriber{
		client:       client,
		blockTimeout: blockTimeout,
	}
}

// Subscribe 从项目流的尾部开始跟读，把解出的消息交给 deliver，
// 直到 ctx 取消才返回。deliver 在订阅协程内被调用。
func (s *ChatSubscriber) Subscribe(ctx context.Context, tenantID, projectID string, deliver func(*entity.BrainstormMessage)) error {
	stream := string(ChatStream(tenantID, projectID))
	log := logger.FromContext(ctx)

	// "$" 表示只接收订阅之后产生的新消息
	lastID := "$"

	for {
		if ctx.Err() != nil {
			return nil
		}

		streams, err := s.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{stream, lastID},
			Count:   16,
			Block:   s.blockTimeout,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			log.Error("failed to read chat stream", "error", err, "stream", stream)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		for _, str := range streams {
			for _, xmsg := range str.Messages {
				lastID = xmsg.ID

				msg, ok := decodeEnvelope(xmsg)
				if !ok || msg.Type != TypeMessageInserted {
					metrics.RealtimeEventsTotal.WithLabelValues("dropped").Inc()
					continue
				}

				var inserted entity.BrainstormMessage
				if err := msg.UnmarshalPayload(&inserted); err != nil {
					log.Warn("failed to decode inserted message", "error", err, "message_id", msg.ID)
					metrics.RealtimeEventsTotal.WithLabelValues("dropped").Inc()
					continue
				}

				deliver(&inserted)
			}
		}
	}
}

// decodeEnvelope 解析流条目里的消息信封
func decodeEnvelope(xmsg redis.XMessage) (*Message, bool) {
	raw, ok := xmsg.Values["data"].(string)
	if !ok {
		return nil, false
	}

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, false
	}
	return &msg, true
}
