// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"viralspark-api/internal/domain/entity"
)

type BrainstormMessageRepository struct {
	client *Client
}

func NewBrainstormMessageRepository(client *Client) *BrainstormMessageRepository {
	return &BrainstormMessageRepository{client: client}
}

// Append 插入消息，主键冲突静默忽略
// 乐观插入与实时确认可能携带同一 ID 竞争写入，重复写入不是错误
func (r *BrainstormMessageRepository) Append(ctx context.Context, message *entity.BrainstormMessage) error {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormMessageRepository.Append")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(message).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append brainstorm message: %w", err)
	}
	return nil
}

// ListByProject 项目全部消息，按创建时间升序
func (r *BrainstormMessageRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]*entity.BrainstormMessage, error) {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormMessageRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var messages []*entity.BrainstormMessage
	if err := db.
		Where("tenant_id = ? AND project_id = ?", tenantID, projectID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list brainstorm messages: %w", err)
	}
	return messages, nil
}

// DeleteByProject 按项目整体删除（重置路径）
func (r *BrainstormMessageRepository) DeleteByProject(ctx context.Context, tenantID, projectID string) error {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormMessageRepository.DeleteByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.
		Where("tenant_id = ? AND project_id = ?", tenantID, projectID).
		Delete(&entity.BrainstormMessage{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete brainstorm messages: %w", err)
	}
	return nil
}
