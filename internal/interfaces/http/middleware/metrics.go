// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strconv"
	"time"

	"viralspark-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 请求指标采集中间件。
// 路由标签用注册模板而不是实际路径，避免路径参数打爆标签基数。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		start := time.Now()

		defer func() {
			status := strconv.Itoa(c.Writer.Status())
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			if size := c.Writer.Size(); size > 0 {
				metrics.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
			}
		}()

		if c.Request.ContentLength > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, route).Observe(float64(c.Request.ContentLength))
		}

		c.Next()
	}
}
