// Package entity 定义领域实体
package entity

import (
	"time"
)

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// ProjectSettings 项目设置
type ProjectSettings struct {
	DefaultPlatform string  `json:"default_platform,omitempty"`
	BrandVoice      string  `json:"brand_voice,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

// Project 内容项目实体，团队创作与审阅的基本单位
type Project struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    string           `json:"tenant_id" gorm:"type:uuid;index;not null"`
	OwnerID     string           `json:"owner_id,omitempty" gorm:"type:uuid;index"`
	Name        string           `json:"name" gorm:"type:varchar(255);not null"`
	Description string           `json:"description,omitempty" gorm:"type:text"`
	Settings    *ProjectSettings `json:"settings,omitempty" gorm:"type:jsonb;serializer:json"`
	Status      ProjectStatus    `json:"status" gorm:"type:varchar(50);default:'active'"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProject 创建新项目
func NewProject(tenantID, ownerID, name string) *Project {
	now := time.Now()
	return &Project{
		TenantID:  tenantID,
		OwnerID:   ownerID,
		Name:      name,
		Settings:  &ProjectSettings{},
		Status:    ProjectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsArchived 检查项目是否已归档
func (p *Project) IsArchived() bool {
	return p.Status == ProjectStatusArchived
}
