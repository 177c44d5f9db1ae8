// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"viralspark-api/internal/domain/entity"
)

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id string) error
	ListByTenant(ctx context.Context, tenantID string, pagination Pagination) (*PagedResult[*entity.Project], error)
	// CountByTenant 只计 active 项目，供配额检查使用
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}
