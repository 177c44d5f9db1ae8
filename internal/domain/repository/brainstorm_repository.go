// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"viralspark-api/internal/domain/entity"
)

// BrainstormSessionRepository 创意助手会话仓储接口
type BrainstormSessionRepository interface {
	Create(ctx context.Context, session *entity.BrainstormSession) error
	GetByID(ctx context.Context, id string) (*entity.BrainstormSession, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.BrainstormSession, error)
	GetActiveByProject(ctx context.Context, tenantID, projectID string) (*entity.BrainstormSession, error)
	Update(ctx context.Context, session *entity.BrainstormSession) error
}

// BrainstormMessageRepository 会话消息仓储接口
// Append 对主键冲突幂等：同一 ID 重复写入静默忽略，不报错
type BrainstormMessageRepository interface {
	Append(ctx context.Context, message *entity.BrainstormMessage) error
	ListByProject(ctx context.Context, tenantID, projectID string) ([]*entity.BrainstormMessage, error)
	DeleteByProject(ctx context.Context, tenantID, projectID string) error
}
