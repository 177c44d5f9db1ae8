// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"viralspark-api/internal/domain/entity"
)

// TenantRepository 租户仓储接口
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Tenant], error)
	UpdateStatus(ctx context.Context, id string, status entity.TenantStatus) error
	// UpdatePlan 换套餐，quota 非 nil 时同时覆盖配额
	UpdatePlan(ctx context.Context, id string, plan entity.TenantPlan, quota *entity.TenantQuota) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
