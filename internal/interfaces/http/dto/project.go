// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"viralspark-api/internal/domain/entity"
)

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description,omitempty" binding:"max=2000"`

	DefaultPlatform string `json:"default_platform,omitempty" binding:"max=64"`
	BrandVoice      string `json:"brand_voice,omitempty" binding:"max=2000"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=active archived"`

	DefaultPlatform *string `json:"default_platform,omitempty" binding:"omitempty,max=64"`
	BrandVoice      *string `json:"brand_voice,omitempty" binding:"omitempty,max=2000"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	DefaultPlatform string `json:"default_platform,omitempty"`
	BrandVoice      string `json:"brand_voice,omitempty"`
}

// ToProjectResponse 将领域实体转换为 DTO
func ToProjectResponse(p *entity.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	resp := &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Settings != nil {
		resp.DefaultPlatform = p.Settings.DefaultPlatform
		resp.BrandVoice = p.Settings.BrandVoice
	}
	return resp
}

// ToProjectResponses 批量转换
func ToProjectResponses(projects []*entity.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}
