// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"viralspark-api/internal/domain/entity"
)

// UserRepository 用户仓储接口。
// 邮箱在租户内唯一，按邮箱的查询都带 tenantID。
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, tenantID, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByTenant(ctx context.Context, tenantID string, pagination Pagination) (*PagedResult[*entity.User], error)
	UpdateLastLogin(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, tenantID, email string) (bool, error)
}
