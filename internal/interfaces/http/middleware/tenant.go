// Package middleware 提供 HTTP 中间件
package middleware

import (
	"viralspark-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TenantConfig 租户中间件配置
type TenantConfig struct {
	// HeaderName 未认证入口从该 Header 读租户，默认 X-Tenant-ID
	HeaderName string
	// DefaultTenantID 兜底租户，仅开发环境使用
	DefaultTenantID string
}

// Tenant 把租户与用户标识注入日志上下文
// 租户来源优先级：JWT（Auth 中间件已写入）> Header > 配置兜底
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Tenant-ID"
	}

	return func(c *gin.Context) {
		tenantID := c.GetString("tenant_id")
		if tenantID == "" {
			tenantID = c.GetHeader(cfg.HeaderName)
		}
		if tenantID == "" {
			tenantID = cfg.DefaultTenantID
		}

		if tenantID != "" {
			c.Set("tenant_id", tenantID)

			ctx := logger.WithContext(c.Request.Context(), logger.TenantIDKey, tenantID)
			if userID := c.GetString("user_id"); userID != "" {
				ctx = logger.WithContext(ctx, logger.UserIDKey, userID)
			}
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// GetTenantIDFromGin 从 Gin Context 中获取租户 ID
func GetTenantIDFromGin(c *gin.Context) string {
	return c.GetString("tenant_id")
}

// GetUserIDFromGin 从 Gin Context 中获取用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString("user_id")
}
