// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"time"

	"viralspark-api/internal/infrastructure/messaging"
	"viralspark-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuditSink 审计事件的发布端口，由消息生产者实现
type AuditSink interface {
	EmitAuditLog(ctx context.Context, event *messaging.AuditEventMessage)
}

// AuditConfig 审计配置
type AuditConfig struct {
	// Enabled 是否启用审计
	Enabled bool
	// SkipPaths 跳过审计的路径
	SkipPaths []string
}

// Audit 审计中间件。
// 每个请求记录一条访问日志；写操作额外发布审计事件到流，
// 由 audit-worker 异步落库。
func Audit(cfg AuditConfig, sink AuditSink) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	// 构建跳过路径映射
	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		// 检查是否跳过
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start)

		logger.Info(c.Request.Context(), "api request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration_ms", duration.Milliseconds(),
			"ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"tenant_id", c.GetString("tenant_id"),
			"user_id", c.GetString("user_id"),
			"request_id", c.GetString("request_id"),
			"trace_id", c.GetString("trace_id"),
			"body_size", c.Writer.Size(),
		)

		// 只读请求不进审计流水线
		if sink == nil || c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		sink.EmitAuditLog(c.Request.Context(), &messaging.AuditEventMessage{
			TenantID:   c.GetString("tenant_id"),
			UserID:     c.GetString("user_id"),
			Action:     c.Request.Method + " " + c.FullPath(),
			Resource:   c.FullPath(),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			ClientIP:   c.ClientIP(),
			RequestID:  c.GetString("request_id"),
			TraceID:    c.GetString("trace_id"),
			OccurredAt: start.Unix(),
		})
	}
}

// DefaultAuditSkipPaths 默认跳过审计的路径
var DefaultAuditSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}
