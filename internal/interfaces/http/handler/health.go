// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"viralspark-api/internal/infrastructure/persistence/postgres"
	"viralspark-api/internal/infrastructure/persistence/redis"
)

// depCheck 就绪检查里的一个被依赖项
type depCheck struct {
	name  string
	check func(ctx context.Context) error
}

// HealthHandler 健康与就绪检查处理器
type HealthHandler struct {
	checks []depCheck
}

// NewHealthHandler 创建健康检查处理器，Postgres 与 Redis 都是必需依赖
func NewHealthHandler(pg *postgres.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		checks: []depCheck{
			{name: "postgres", check: pg.HealthCheck},
			{name: "redis", check: redisClient.HealthCheck},
		},
	}
}

type checkResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                  `json:"status"`
	Checks map[string]*checkResult `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready 就绪检查接口，任一依赖不可用即返回 503
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := readinessResponse{
		Status: "ok",
		Checks: make(map[string]*checkResult, len(h.checks)),
	}
	for _, p := range h.checks {
		start := time.Now()
		err := p.check(ctx)
		result := &checkResult{
			Status:    "ok",
			LatencyMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			resp.Status = "not_ready"
		}
		resp.Checks[p.name] = result
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
