// Package router 提供 HTTP 路由配置
package router

import (
	"viralspark-api/internal/interfaces/http/handler"
	"viralspark-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", middleware.RequirePermission(middleware.PermProjectRead), h.Project.List)
		projects.POST("", middleware.RequirePermission(middleware.PermProjectWrite), h.Project.Create)
		projects.GET("/:id", middleware.RequirePermission(middleware.PermProjectRead), h.Project.Get)
		projects.PUT("/:id", middleware.RequirePermission(middleware.PermProjectWrite), h.Project.Update)
		projects.DELETE("/:id", middleware.RequirePermission(middleware.PermProjectWrite), h.Project.Delete)

		// 项目下的灵感会话
		brainstorm := projects.Group("/:id/brainstorm")
		{
			brainstorm.GET("", middleware.RequirePermission(middleware.PermProjectRead), h.Brainstorm.State)
			brainstorm.POST("/input", middleware.RequirePermission(middleware.PermBrainstormRun), h.Brainstorm.Input)
			brainstorm.POST("/option", middleware.RequirePermission(middleware.PermBrainstormRun), h.Brainstorm.Option)
			brainstorm.POST("/reset", middleware.RequirePermission(middleware.PermBrainstormRun), h.Brainstorm.Reset)
			brainstorm.GET("/ws", middleware.RequirePermission(middleware.PermBrainstormRun), h.ChatWS.Handle)
		}
	}
}

// RegisterAdminRoutes 注册平台管理路由
func RegisterAdminRoutes(admin *gin.RouterGroup, h *handler.AdminHandler) {
	tenants := admin.Group("/tenants")
	{
		tenants.GET("", h.ListTenants)
		tenants.GET("/:id", h.GetTenant)
		tenants.PUT("/:id/plan", h.UpdateTenantPlan)
		tenants.PUT("/:id/status", h.UpdateTenantStatus)
		tenants.GET("/:id/audit-logs", h.ListAuditLogs)
	}
}
