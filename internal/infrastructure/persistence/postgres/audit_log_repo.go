// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
)

type AuditLogRepository struct {
	client *Client
}

func NewAuditLogRepository(client *Client) *AuditLogRepository {
	return &AuditLogRepository{client: client}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	ctx, span := tracer.Start(ctx, "postgres.AuditLogRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(log).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) ListByTenant(ctx context.Context, tenantID string, pagination repository.Pagination) (*repository.PagedResult[*entity.AuditLog], error) {
	ctx, span := tracer.Start(ctx, "postgres.AuditLogRepository.ListByTenant")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.AuditLog{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []*entity.AuditLog
	if err := query.Order("occurred_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&logs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return repository.NewPagedResult(logs, total, pagination), nil
}
