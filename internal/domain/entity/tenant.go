// Package entity 定义领域实体
package entity

import (
	"time"
)

// TenantStatus 租户状态
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusDeleted   TenantStatus = "deleted"
)

// TenantPlan 租户套餐
type TenantPlan string

const (
	TenantPlanFree     TenantPlan = "free"
	TenantPlanCreator  TenantPlan = "creator"
	TenantPlanBusiness TenantPlan = "business"
)

// TenantQuota 租户配额
type TenantQuota struct {
	MaxProjects          int   `json:"max_projects"`
	MaxSessionsPerDay    int   `json:"max_sessions_per_day"`
	MaxBrainstormsPerDay int   `json:"max_brainstorms_per_day"`
	MaxTokensPerDay      int64 `json:"max_tokens_per_day"`
}

// TenantSettings 租户设置
type TenantSettings struct {
	DefaultModel    string `json:"default_model,omitempty"`
	DefaultLanguage string `json:"default_language,omitempty"`
}

// Tenant 租户实体
type Tenant struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string          `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Plan      TenantPlan      `json:"plan" gorm:"type:varchar(32);not null;default:'free'"`
	Settings  *TenantSettings `json:"settings,omitempty" gorm:"type:jsonb;serializer:json"`
	Quota     *TenantQuota    `json:"quota,omitempty" gorm:"type:jsonb;serializer:json"`
	Status    TenantStatus    `json:"status" gorm:"type:varchar(32);not null;default:'active'"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Tenant) TableName() string {
	return "tenants"
}

// DefaultQuotaForPlan 返回套餐对应的默认配额
func DefaultQuotaForPlan(plan TenantPlan) *TenantQuota {
	switch plan {
	case TenantPlanBusiness:
		return &TenantQuota{
			MaxProjects:          500,
			MaxSessionsPerDay:    5000,
			MaxBrainstormsPerDay: 2000,
			MaxTokensPerDay:      10000000,
		}
	case TenantPlanCreator:
		return &TenantQuota{
			MaxProjects:          50,
			MaxSessionsPerDay:    500,
			MaxBrainstormsPerDay: 200,
			MaxTokensPerDay:      1000000,
		}
	default:
		return &TenantQuota{
			MaxProjects:          5,
			MaxSessionsPerDay:    50,
			MaxBrainstormsPerDay: 20,
			MaxTokensPerDay:      100000,
		}
	}
}

// NewTenant 创建新租户
func NewTenant(name, slug string, plan TenantPlan) *Tenant {
	now := time.Now()
	if plan == "" {
		plan = TenantPlanFree
	}
	return &Tenant{
		Name:      name,
		Slug:      slug,
		Plan:      plan,
		Status:    TenantStatusActive,
		Quota:     DefaultQuotaForPlan(plan),
		Settings:  &TenantSettings{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive 检查租户是否活跃
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
