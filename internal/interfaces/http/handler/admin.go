// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"viralspark-api/internal/application/audit"
	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/infrastructure/persistence/redis"
	"viralspark-api/internal/interfaces/http/dto"
	"viralspark-api/pkg/logger"
)

// AdminHandler 平台管理端处理器，仅 admin 角色可达
type AdminHandler struct {
	tenants repository.TenantRepository
	audit   *audit.Service
	cache   *redis.Cache
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(tenants repository.TenantRepository, auditSvc *audit.Service, cache *redis.Cache) *AdminHandler {
	return &AdminHandler{
		tenants: tenants,
		audit:   auditSvc,
		cache:   cache,
	}
}

// invalidateTenantMeta 套餐或状态变更后使配额侧的元数据缓存失效
func (h *AdminHandler) invalidateTenantMeta(c *gin.Context, tenantID string) {
	if h.cache == nil {
		return
	}
	ctx := c.Request.Context()
	if err := h.cache.InvalidateTenant(ctx, tenantID); err != nil {
		logger.Warn(ctx, "failed to invalidate tenant cache", "error", err, "tenant_id", tenantID)
	}
}

// ListTenants 分页获取租户列表
func (h *AdminHandler) ListTenants(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pagination := repository.NewPagination(page, pageSize)

	result, err := h.tenants.List(ctx, pagination)
	if err != nil {
		logger.Error(ctx, "failed to list tenants", err)
		dto.InternalError(c, "failed to list tenants")
		return
	}

	dto.SuccessWithPage(c, dto.ToTenantResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// GetTenant 获取单个租户
func (h *AdminHandler) GetTenant(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := c.Param("id")

	tenant, err := h.tenants.GetByID(ctx, tenantID)
	if err != nil {
		logger.Error(ctx, "failed to get tenant", err, "tenant_id", tenantID)
		dto.InternalError(c, "failed to get tenant")
		return
	}
	if tenant == nil {
		dto.NotFound(c, "tenant not found")
		return
	}

	dto.Success(c, dto.ToTenantResponse(tenant))
}

// UpdateTenantPlan 调整租户套餐，可附带配额覆盖
func (h *AdminHandler) UpdateTenantPlan(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := c.Param("id")

	var req dto.UpdateTenantPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	tenant, err := h.tenants.GetByID(ctx, tenantID)
	if err != nil {
		logger.Error(ctx, "failed to get tenant", err, "tenant_id", tenantID)
		dto.InternalError(c, "failed to get tenant")
		return
	}
	if tenant == nil {
		dto.NotFound(c, "tenant not found")
		return
	}

	if err := h.tenants.UpdatePlan(ctx, tenantID, entity.TenantPlan(req.Plan), req.Quota); err != nil {
		logger.Error(ctx, "failed to update tenant plan", err, "tenant_id", tenantID)
		dto.InternalError(c, "failed to update tenant plan")
		return
	}

	h.invalidateTenantMeta(c, tenantID)

	logger.Info(ctx, "tenant plan updated", "tenant_id", tenantID, "plan", req.Plan)
	dto.NoContent(c)
}

// UpdateTenantStatus 启用或暂停租户
func (h *AdminHandler) UpdateTenantStatus(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := c.Param("id")

	var req dto.UpdateTenantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	tenant, err := h.tenants.GetByID(ctx, tenantID)
	if err != nil {
		logger.Error(ctx, "failed to get tenant", err, "tenant_id", tenantID)
		dto.InternalError(c, "failed to get tenant")
		return
	}
	if tenant == nil {
		dto.NotFound(c, "tenant not found")
		return
	}

	if err := h.tenants.UpdateStatus(ctx, tenantID, entity.TenantStatus(req.Status)); err != nil {
		logger.Error(ctx, "failed to update tenant status", err, "tenant_id", tenantID)
		dto.InternalError(c, "failed to update tenant status")
		return
	}

	h.invalidateTenantMeta(c, tenantID)

	logger.Info(ctx, "tenant status updated", "tenant_id", tenantID, "status", req.Status)
	dto.NoContent(c)
}

// ListAuditLogs 分页获取某租户的审计日志
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := c.Param("id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pagination := repository.NewPagination(page, pageSize)

	result, err := h.audit.ListByTenant(ctx, tenantID, pagination)
	if err != nil {
		logger.Error(ctx, "failed to list audit logs", err, "tenant_id", tenantID)
		dto.InternalError(c, "failed to list audit logs")
		return
	}

	dto.SuccessWithPage(c, dto.ToAuditLogResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
