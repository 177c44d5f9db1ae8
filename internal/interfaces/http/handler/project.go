// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"viralspark-api/internal/application/quota"
	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/interfaces/http/dto"
	"viralspark-api/internal/interfaces/http/middleware"
	"viralspark-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	projects repository.ProjectRepository
	quota    *quota.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(projects repository.ProjectRepository, quotaSvc *quota.Service) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		quota:    quotaSvc,
	}
}

// List 项目列表
// @Summary 项目列表
// @Tags Project
// @Produce json
// @Success 200 {object} dto.Response[[]dto.ProjectResponse]
// @Router /v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pagination := repository.NewPagination(page, pageSize)

	result, err := h.projects.ListByTenant(ctx, tenantID, pagination)
	if err != nil {
		logger.Error(ctx, "failed to list projects", err)
		dto.InternalError(c, "failed to list projects")
		return
	}

	dto.SuccessWithPage(c, dto.ToProjectResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Create 创建项目
// @Summary 创建项目
// @Tags Project
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Router /v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	userID := middleware.GetUserIDFromGin(c)

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 套餐配额检查
	if err := h.quota.CheckProjectCreate(ctx, tenantID); err != nil {
		dto.FromError(c, err)
		return
	}

	project := entity.NewProject(tenantID, userID, req.Name)
	project.Description = req.Description
	if req.DefaultPlatform != "" || req.BrandVoice != "" {
		project.Settings = &entity.ProjectSettings{
			DefaultPlatform: req.DefaultPlatform,
			BrandVoice:      req.BrandVoice,
		}
	}

	if err := h.projects.Create(ctx, project); err != nil {
		logger.Error(ctx, "failed to create project", err)
		dto.InternalError(c, "failed to create project")
		return
	}

	dto.Created(c, dto.ToProjectResponse(project))
}

// Get 项目详情
func (h *ProjectHandler) Get(c *gin.Context) {
	project, ok := h.loadOwnedProject(c)
	if !ok {
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// Update 更新项目
func (h *ProjectHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	project, ok := h.loadOwnedProject(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = entity.ProjectStatus(*req.Status)
	}
	if req.DefaultPlatform != nil || req.BrandVoice != nil {
		if project.Settings == nil {
			project.Settings = &entity.ProjectSettings{}
		}
		if req.DefaultPlatform != nil {
			project.Settings.DefaultPlatform = *req.DefaultPlatform
		}
		if req.BrandVoice != nil {
			project.Settings.BrandVoice = *req.BrandVoice
		}
	}

	if err := h.projects.Update(ctx, project); err != nil {
		logger.Error(ctx, "failed to update project", err)
		dto.InternalError(c, "failed to update project")
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// Delete 删除项目
func (h *ProjectHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	project, ok := h.loadOwnedProject(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(ctx, project.ID); err != nil {
		logger.Error(ctx, "failed to delete project", err)
		dto.InternalError(c, "failed to delete project")
		return
	}

	dto.NoContent(c)
}

// loadOwnedProject 加载路径参数指定的项目并做租户归属校验
func (h *ProjectHandler) loadOwnedProject(c *gin.Context) (*entity.Project, bool) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	projectID := c.Param("id")

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to get project")
		return nil, false
	}
	if project == nil || project.TenantID != tenantID {
		dto.NotFound(c, "project not found")
		return nil, false
	}
	return project, true
}
