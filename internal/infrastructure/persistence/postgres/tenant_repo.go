// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
)

type TenantRepository struct {
	client *Client
}

func NewTenantRepository(client *Client) *TenantRepository {
	return &TenantRepository{client: client}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(tenant).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.GetByID")
	defer span.End()

	tenant, err := firstOrNil[entity.Tenant](getDB(ctx, r.client.db), "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.GetBySlug")
	defer span.End()

	tenant, err := firstOrNil[entity.Tenant](getDB(ctx, r.client.db), "slug = ?", slug)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get tenant by slug: %w", err)
	}
	return tenant, nil
}

func (r *TenantRepository) Update(ctx context.Context, tenant *entity.Tenant) error {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(tenant).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return nil
}

// List 逻辑删除的租户不出现在列表里
func (r *TenantRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Tenant], error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.List")
	defer span.End()

	query := getDB(ctx, r.client.db).Model(&entity.Tenant{}).
		Where("status != ?", entity.TenantStatusDeleted)
	result, err := listPage[entity.Tenant](query, "created_at DESC", pagination)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return result, nil
}

func (r *TenantRepository) UpdateStatus(ctx context.Context, id string, status entity.TenantStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.UpdateStatus")
	defer span.End()

	err := getDB(ctx, r.client.db).Model(&entity.Tenant{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	return nil
}

// UpdatePlan 换套餐，quota 为 nil 时保留原配额
func (r *TenantRepository) UpdatePlan(ctx context.Context, id string, plan entity.TenantPlan, quota *entity.TenantQuota) error {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.UpdatePlan")
	defer span.End()

	updates := map[string]interface{}{"plan": plan}
	if quota != nil {
		updates["quota"] = quota
	}
	err := getDB(ctx, r.client.db).Model(&entity.Tenant{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update tenant plan: %w", err)
	}
	return nil
}

func (r *TenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.ExistsBySlug")
	defer span.End()

	var count int64
	err := getDB(ctx, r.client.db).Model(&entity.Tenant{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check tenant slug: %w", err)
	}
	return count > 0, nil
}
