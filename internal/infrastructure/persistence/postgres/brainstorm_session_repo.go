// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"viralspark-api/internal/domain/entity"
)

type BrainstormSessionRepository struct {
	client *Client
}

func NewBrainstormSessionRepository(client *Client) *BrainstormSessionRepository {
	return &BrainstormSessionRepository{client: client}
}

func (r *BrainstormSessionRepository) Create(ctx context.Context, session *entity.BrainstormSession) error {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormSessionRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create brainstorm session: %w", err)
	}
	return nil
}

func (r *BrainstormSessionRepository) GetByID(ctx context.Context, id string) (*entity.BrainstormSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormSessionRepository.GetByID")
	defer span.End()

	session, err := firstOrNil[entity.BrainstormSession](getDB(ctx, r.client.db), "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get brainstorm session: %w", err)
	}
	return session, nil
}

// GetByIDForUpdate 带行锁读取，只能在事务内调用
func (r *BrainstormSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.BrainstormSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormSessionRepository.GetByIDForUpdate")
	defer span.End()

	db := getDB(ctx, r.client.db).Clauses(clause.Locking{Strength: "UPDATE"})
	session, err := firstOrNil[entity.BrainstormSession](db, "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get brainstorm session for update: %w", err)
	}
	return session, nil
}

// GetActiveByProject 一个项目可能有多条历史会话，取最新的 active 那条
func (r *BrainstormSessionRepository) GetActiveByProject(ctx context.Context, tenantID, projectID string) (*entity.BrainstormSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormSessionRepository.GetActiveByProject")
	defer span.End()

	db := getDB(ctx, r.client.db).
		Where("tenant_id = ? AND project_id = ? AND status = ?",
			tenantID, projectID, entity.BrainstormSessionStatusActive).
		Order("created_at DESC")
	session, err := firstOrNil[entity.BrainstormSession](db)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get active brainstorm session: %w", err)
	}
	return session, nil
}

func (r *BrainstormSessionRepository) Update(ctx context.Context, session *entity.BrainstormSession) error {
	ctx, span := tracer.Start(ctx, "postgres.BrainstormSessionRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update brainstorm session: %w", err)
	}
	return nil
}
