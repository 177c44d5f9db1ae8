package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"viralspark-api/pkg/logger"
	"viralspark-api/pkg/metrics"
)

// AuditHandler 把一条审计事件落库
type AuditHandler func(ctx context.Context, msg *Message) error

// AuditConsumer 审计流的消费者组成员。
// 审计流只有一种事件、一个写库处理器，消费语义固定为：
// 处理失败留在 pending 按退避重投，超过重试上限进死信流；
// 其他成员崩溃遗留的 pending 条目在空闲超时后被接管。
type AuditConsumer struct {
	client *redis.Client
	name   string
	handle AuditHandler

	blockTimeout time.Duration
	scanInterval time.Duration
	reclaimIdle  time.Duration
	retryLimit   int
	backoff      BackoffConfig

	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
	stopCh   chan struct{}
}

// AuditConsumerConfig 审计消费者配置，零值字段取默认
type AuditConsumerConfig struct {
	ConsumerName string
	BlockTimeout time.Duration
	ScanInterval time.Duration
	RetryLimit   int
	Backoff      BackoffConfig
}

// NewAuditConsumer 创建审计流消费者
func NewAuditConsumer(client *redis.Client, handle AuditHandler, cfg AuditConsumerConfig) *AuditConsumer {
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 5 * time.Second
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 30 * time.Second
	}
	if cfg.RetryLimit <= 0 {
		cfg.RetryLimit = 3
	}
	if cfg.Backoff.Initial <= 0 {
		cfg.Backoff = DefaultBackoffConfig()
	}

	reclaimIdle := 5 * time.Minute
	if doubled := cfg.Backoff.Max * 2; doubled > reclaimIdle {
		reclaimIdle = doubled
	}

	return &AuditConsumer{
		client:       client,
		name:         cfg.ConsumerName,
		handle:       handle,
		blockTimeout: cfg.BlockTimeout,
		scanInterval: cfg.ScanInterval,
		reclaimIdle:  reclaimIdle,
		retryLimit:   cfg.RetryLimit,
		backoff:      cfg.Backoff,
		stopCh:       make(chan struct{}),
	}
}

// Start 确保消费者组存在并启动消费循环
func (c *AuditConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("audit consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	err := c.client.XGroupCreateMkStream(ctx, string(StreamAuditLog), string(ConsumerGroupAuditWriter), "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create audit consumer group: %w", err)
	}

	go c.run(ctx)
	return nil
}

// Stop 停止消费循环与死信监控
func (c *AuditConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *AuditConsumer) run(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info("audit consumer started",
		"stream", StreamAuditLog,
		"group", ConsumerGroupAuditWriter,
		"consumer", c.name,
	)

	lastScan := time.Now().Add(-c.scanInterval)

	for {
		select {
		case <-ctx.Done():
			log.Info("audit consumer stopped", "reason", "context cancelled")
			return
		case <-c.stopCh:
			log.Info("audit consumer stopped")
			return
		default:
		}

		if time.Since(lastScan) >= c.scanInterval {
			c.recoverPending(ctx)
			c.reportLag(ctx)
			lastScan = time.Now()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    string(ConsumerGroupAuditWriter),
			Consumer: c.name,
			Streams:  []string{string(StreamAuditLog), ">"},
			Count:    10,
			Block:    c.blockTimeout,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			log.Error("failed to read audit stream", "error", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, xmsg := range stream.Messages {
				c.consume(ctx, xmsg)
			}
		}
	}
}

// consume 处理一条审计条目，成功或不可恢复时 ack，
// 可重试的失败留在 pending 交给 recoverPending
func (c *AuditConsumer) consume(ctx context.Context, xmsg redis.XMessage) {
	ctx, span := tracer.Start(ctx, "audit.consume",
		trace.WithAttributes(attribute.String("stream.entry_id", xmsg.ID)))
	defer span.End()

	msg, ok := decodeEnvelope(xmsg)
	if !ok {
		logger.FromContext(ctx).Error("malformed audit entry", "entry_id", xmsg.ID)
		metrics.RedisStreamProcessed.WithLabelValues(string(StreamAuditLog), "malformed").Inc()
		c.ack(ctx, xmsg.ID)
		return
	}
	if msg.Type != TypeAudit {
		metrics.RedisStreamProcessed.WithLabelValues(string(StreamAuditLog), "unhandled").Inc()
		c.ack(ctx, xmsg.ID)
		return
	}

	if msg.TenantID != "" {
		ctx = logger.WithContext(ctx, logger.TenantIDKey, msg.TenantID)
	}
	if reqID := msg.GetMetadata("request_id"); reqID != "" {
		ctx = logger.WithContext(ctx, logger.RequestIDKey, reqID)
	}
	span.SetAttributes(
		attribute.String("message.id", msg.ID),
		attribute.String("tenant_id", msg.TenantID),
	)

	if err := c.handle(ctx, msg); err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error("audit write failed", "error", err, "message_id", msg.ID)
		metrics.RedisStreamProcessed.WithLabelValues(string(StreamAuditLog), "error").Inc()
		return
	}

	metrics.RedisStreamProcessed.WithLabelValues(string(StreamAuditLog), "ok").Inc()
	c.ack(ctx, xmsg.ID)
}

// recoverPending 扫描整个消费者组的 pending 条目。
// 自己的条目按退避重投；其他成员的条目在空闲超过 reclaimIdle 后接管；
// 投递次数超限的条目改写进死信流。
func (c *AuditConsumer) recoverPending(ctx context.Context) {
	log := logger.FromContext(ctx)

	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: string(StreamAuditLog),
		Group:  string(ConsumerGroupAuditWriter),
		Start:  "-",
		End:    "+",
		Count:  64,
	}).Result()
	if err != nil {
		if err != redis.Nil {
			log.Error("failed to scan pending audit entries", "error", err)
		}
		return
	}

	for _, p := range pending {
		minIdle := c.backoff.CalculateBackoff(int(p.RetryCount))
		if p.Consumer != c.name && c.reclaimIdle > minIdle {
			minIdle = c.reclaimIdle
		}
		if p.Idle < minIdle {
			continue
		}

		claimed, err := c.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   string(StreamAuditLog),
			Group:    string(ConsumerGroupAuditWriter),
			Consumer: c.name,
			MinIdle:  minIdle,
			Messages: []string{p.ID},
		}).Result()
		if err != nil {
			log.Error("failed to claim pending audit entry", "error", err, "entry_id", p.ID)
			continue
		}

		exhausted := int(p.RetryCount) >= c.retryLimit
		for _, xmsg := range claimed {
			if exhausted {
				c.deadLetter(ctx, xmsg, fmt.Errorf("audit entry exceeded %d retries", c.retryLimit))
				continue
			}
			c.consume(ctx, xmsg)
		}
	}
}

// deadLetter 把条目连同失败原因写入死信流并 ack 原条目
func (c *AuditConsumer) deadLetter(ctx context.Context, xmsg redis.XMessage, cause error) {
	entry := map[string]interface{}{
		"original_stream": string(StreamAuditLog),
		"entry":           xmsg.Values["data"],
		"error":           cause.Error(),
		"failed_at":       time.Now().Unix(),
	}
	data, _ := json.Marshal(entry)

	if err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamAuditLog.DLQStream(),
		Values: map[string]interface{}{"data": string(data)},
	}).Err(); err != nil {
		logger.FromContext(ctx).Error("failed to write dead letter", "error", err, "entry_id", xmsg.ID)
		return
	}

	metrics.RedisStreamProcessed.WithLabelValues(string(StreamAuditLog), "dlq").Inc()
	logger.FromContext(ctx).Warn("audit entry moved to DLQ", "entry_id", xmsg.ID, "cause", cause.Error())
	c.ack(ctx, xmsg.ID)
}

func (c *AuditConsumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, string(StreamAuditLog), string(ConsumerGroupAuditWriter), id).Err(); err != nil {
		logger.FromContext(ctx).Error("failed to ack audit entry", "error", err, "entry_id", id)
	}
}

// reportLag 上报消费者组积压
func (c *AuditConsumer) reportLag(ctx context.Context) {
	groups, err := c.client.XInfoGroups(ctx, string(StreamAuditLog)).Result()
	if err != nil {
		return
	}
	for _, g := range groups {
		if g.Name == string(ConsumerGroupAuditWriter) {
			metrics.RedisStreamLag.WithLabelValues(string(StreamAuditLog), g.Name).Set(float64(g.Lag))
		}
	}
}

// MonitorDLQ 周期检查死信流长度，超过阈值时告警
func (c *AuditConsumer) MonitorDLQ(ctx context.Context, alertThreshold int64) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			info, err := c.client.XInfoStream(ctx, StreamAuditLog.DLQStream()).Result()
			if err != nil {
				continue
			}
			if info.Length > alertThreshold {
				logger.FromContext(ctx).Warn("audit DLQ backlog above threshold",
					"stream", StreamAuditLog.DLQStream(),
					"count", info.Length,
				)
			}
		}
	}
}
