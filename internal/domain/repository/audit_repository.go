// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"viralspark-api/internal/domain/entity"
)

// AuditLogRepository 审计日志仓储接口
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListByTenant(ctx context.Context, tenantID string, pagination Pagination) (*PagedResult[*entity.AuditLog], error)
}
