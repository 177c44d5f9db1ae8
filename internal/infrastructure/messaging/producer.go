// Package messaging 提供基于 Redis Streams 的消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/pkg/logger"
	"viralspark-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishInserted 把新插入的会话消息广播到项目的实时流。
// 实现 brainstorm.Publisher 端口。
func (p *Producer) PublishInserted(ctx context.Context, message *entity.BrainstormMessage) error {
	msg, err := NewMessage(message.ID, TypeMessageInserted, message.TenantID, message.ProjectID, message)
	if err != nil {
		return err
	}
	msg.SetMetadata("role", string(message.Role))

	_, err = p.Publish(ctx, ChatStream(message.TenantID, message.ProjectID), msg)
	return err
}

// PublishAuditLog 发布审计事件
func (p *Producer) PublishAuditLog(ctx context.Context, event *AuditEventMessage) (string, error) {
	msg, err := NewMessage(event.RequestID, TypeAudit, event.TenantID, "", event)
	if err != nil {
		return "", err
	}

	return p.Publish(ctx, StreamAuditLog, msg)
}

// EmitAuditLog 尽力发布审计事件，失败只记日志。
// 审计是旁路流水线，不能反压业务请求。
func (p *Producer) EmitAuditLog(ctx context.Context, event *AuditEventMessage) {
	if _, err := p.PublishAuditLog(ctx, event); err != nil {
		metrics.RedisStreamProcessed.WithLabelValues(string(StreamAuditLog), "publish_error").Inc()
		logger.Warn(ctx, "failed to publish audit event", "error", err, "request_id", event.RequestID)
	}
}

// AuditEventMessage 审计事件消息
type AuditEventMessage struct {
	TenantID   string          `json:"tenant_id"`
	UserID     string          `json:"user_id,omitempty"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource,omitempty"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	StatusCode int             `json:"status_code"`
	ClientIP   string          `json:"client_ip,omitempty"`
	RequestID  string          `json:"request_id"`
	TraceID    string          `json:"trace_id,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	OccurredAt int64           `json:"occurred_at"`
}
