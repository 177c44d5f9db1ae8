// Package middleware 提供 HTTP 中间件
package middleware

import (
	"viralspark-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceContext 把当前 span 的 trace_id 带进日志上下文与响应头。
// 必须挂在 Trace 之后，否则拿不到有效 span。
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanContextFromContext(c.Request.Context())
		if sc.IsValid() {
			traceID := sc.TraceID().String()
			c.Set("trace_id", traceID)
			c.Set("span_id", sc.SpanID().String())

			ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, sc.SpanID().String())
			c.Request = c.Request.WithContext(ctx)

			c.Header("X-Trace-ID", traceID)
		}
		c.Next()
	}
}
