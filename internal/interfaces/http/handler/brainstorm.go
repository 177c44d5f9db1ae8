// Package handler 提供 HTTP 请求处理器
package handler

import (
	"viralspark-api/internal/application/brainstorm"
	"viralspark-api/internal/application/quota"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/interfaces/http/dto"
	"viralspark-api/internal/interfaces/http/middleware"
	"viralspark-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BrainstormHandler 创意助手处理器
type BrainstormHandler struct {
	manager  *brainstorm.Manager
	projects repository.ProjectRepository
	quota    *quota.Service
}

// NewBrainstormHandler 创建创意助手处理器
func NewBrainstormHandler(manager *brainstorm.Manager, projects repository.ProjectRepository, quotaSvc *quota.Service) *BrainstormHandler {
	return &BrainstormHandler{
		manager:  manager,
		projects: projects,
		quota:    quotaSvc,
	}
}

// State 当前会话状态与完整消息列表
// @Summary 会话状态
// @Tags Brainstorm
// @Produce json
// @Success 200 {object} dto.Response[dto.BrainstormStateResponse]
// @Router /v1/projects/{id}/brainstorm [get]
func (h *BrainstormHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, projectID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	engine, err := h.manager.Acquire(ctx, tenantID, projectID, userID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, h.stateOf(engine))
}

// Input 自由文本输入
// @Summary 发送自由文本
// @Tags Brainstorm
// @Accept json
// @Produce json
// @Param body body dto.UserInputRequest true "输入内容"
// @Success 200 {object} dto.Response[dto.BrainstormStateResponse]
// @Router /v1/projects/{id}/brainstorm/input [post]
func (h *BrainstormHandler) Input(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, projectID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req dto.UserInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.quota.CheckBrainstormTurn(ctx, tenantID); err != nil {
		dto.FromError(c, err)
		return
	}

	engine, err := h.manager.UserInput(ctx, tenantID, projectID, userID, req.Text)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, h.stateOf(engine))
}

// Option 选项点击
// @Summary 选择选项
// @Tags Brainstorm
// @Accept json
// @Produce json
// @Param body body dto.OptionSelectRequest true "选项"
// @Success 200 {object} dto.Response[dto.BrainstormStateResponse]
// @Router /v1/projects/{id}/brainstorm/option [post]
func (h *BrainstormHandler) Option(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, projectID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req dto.OptionSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.quota.CheckBrainstormTurn(ctx, tenantID); err != nil {
		dto.FromError(c, err)
		return
	}

	engine, err := h.manager.OptionSelected(ctx, tenantID, projectID, userID, req.OptionID, req.Value)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, h.stateOf(engine))
}

// Reset 重置会话（Start Fresh）
// @Summary 重置会话
// @Tags Brainstorm
// @Produce json
// @Success 200 {object} dto.Response[dto.BrainstormStateResponse]
// @Router /v1/projects/{id}/brainstorm/reset [post]
func (h *BrainstormHandler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, projectID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	engine, err := h.manager.Reset(ctx, tenantID, projectID, userID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, h.stateOf(engine))
}

// scope 解析请求归属并校验项目存在于当前租户
func (h *BrainstormHandler) scope(c *gin.Context) (tenantID, projectID, userID string, ok bool) {
	ctx := c.Request.Context()
	tenantID = middleware.GetTenantIDFromGin(c)
	userID = middleware.GetUserIDFromGin(c)
	projectID = c.Param("id")

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to get project")
		return "", "", "", false
	}
	if project == nil || project.TenantID != tenantID {
		dto.NotFound(c, "project not found")
		return "", "", "", false
	}

	// 后续日志都带上项目标识
	c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.ProjectIDKey, projectID))
	return tenantID, projectID, userID, true
}

func (h *BrainstormHandler) stateOf(engine *brainstorm.Engine) *dto.BrainstormStateResponse {
	cfg := engine.Config()
	return &dto.BrainstormStateResponse{
		Step:     string(engine.Step()),
		Config:   cfg,
		Messages: dto.ToBrainstormMessageDTOs(engine.Messages()),
	}
}
