// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
)

type ProjectRepository struct {
	client *Client
}

func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	project, err := firstOrNil[entity.Project](getDB(ctx, r.client.db), "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Project{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListByTenant 按最近更新排序，最近动过的项目排前面
func (r *ProjectRepository) ListByTenant(ctx context.Context, tenantID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.ListByTenant")
	defer span.End()

	query := getDB(ctx, r.client.db).Model(&entity.Project{}).Where("tenant_id = ?", tenantID)
	result, err := listPage[entity.Project](query, "updated_at DESC", pagination)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return result, nil
}

// CountByTenant 只统计 active 项目，配额检查用
func (r *ProjectRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.CountByTenant")
	defer span.End()

	var count int64
	err := getDB(ctx, r.client.db).Model(&entity.Project{}).
		Where("tenant_id = ? AND status = ?", tenantID, entity.ProjectStatusActive).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}
