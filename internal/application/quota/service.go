// Package quota 实现套餐配额检查
// 日维度计数走 Redis，套餐与覆盖配额来自租户记录（管理台可改）
package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/infrastructure/persistence/redis"
	apperrors "viralspark-api/pkg/errors"
)

// CounterStore 日计数端口，由 Redis 客户端实现
type CounterStore interface {
	IncrWithExpiry(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// MetaCache 租户元数据缓存端口，由 Redis 缓存实现
type MetaCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// tenantMetaTTL 租户元数据缓存时长，套餐变更后由管理端主动失效
const tenantMetaTTL = 30 * time.Second

// Service 配额检查服务
type Service struct {
	tenants  repository.TenantRepository
	projects repository.ProjectRepository
	counters CounterStore
	cache    MetaCache
}

// NewService 创建配额服务，cache 为空时每次直查租户记录
func NewService(tenants repository.TenantRepository, projects repository.ProjectRepository, counters CounterStore, cache MetaCache) *Service {
	return &Service{tenants: tenants, projects: projects, counters: counters, cache: cache}
}

// tenantMeta 配额检查需要的租户元数据子集
type tenantMeta struct {
	Status entity.TenantStatus `json:"status"`
	Plan   entity.TenantPlan   `json:"plan"`
	Quota  *entity.TenantQuota `json:"quota,omitempty"`
}

// resolveQuota 取租户配额：记录上有覆盖用覆盖，否则按套餐默认值
func (s *Service) resolveQuota(ctx context.Context, tenantID string) (*entity.TenantQuota, error) {
	meta, err := s.loadMeta(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if meta.Status != entity.TenantStatusActive {
		return nil, apperrors.New(apperrors.CodePlanRestricted, "tenant is suspended")
	}
	if meta.Quota != nil {
		return meta.Quota, nil
	}
	return entity.DefaultQuotaForPlan(meta.Plan), nil
}

// loadMeta 经缓存读租户元数据，缓存故障时降级为直查
func (s *Service) loadMeta(ctx context.Context, tenantID string) (*tenantMeta, error) {
	loader := func() (interface{}, error) {
		tenant, err := s.tenants.GetByID(ctx, tenantID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeTenantNotFound, "resolve tenant quota", err)
		}
		if tenant == nil {
			return nil, apperrors.New(apperrors.CodeTenantNotFound, "tenant not found")
		}
		return &tenantMeta{Status: tenant.Status, Plan: tenant.Plan, Quota: tenant.Quota}, nil
	}

	if s.cache == nil {
		raw, err := loader()
		if err != nil {
			return nil, err
		}
		return raw.(*tenantMeta), nil
	}

	data, err := s.cache.GetOrLoadSafe(ctx, redis.TenantCacheKey(tenantID), tenantMetaTTL, loader)
	if err != nil {
		// 缓存链路出错时降级为直查，租户确实不存在的错误在此一并返回
		raw, loadErr := loader()
		if loadErr != nil {
			return nil, loadErr
		}
		return raw.(*tenantMeta), nil
	}
	var meta tenantMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "decode tenant meta", err)
	}
	return &meta, nil
}

// CheckBrainstormTurn 头脑风暴轮次的日配额，超限返回 CodeQuotaExceeded
func (s *Service) CheckBrainstormTurn(ctx context.Context, tenantID string) error {
	quota, err := s.resolveQuota(ctx, tenantID)
	if err != nil {
		return err
	}
	if quota.MaxBrainstormsPerDay <= 0 {
		return nil
	}

	count, err := s.counters.IncrWithExpiry(ctx, dailyKey(tenantID, "brainstorm"), 48*time.Hour)
	if err != nil {
		// 计数不可用时放行：配额是软限制，不能因为 Redis 故障拒绝所有请求
		return nil
	}
	if count > int64(quota.MaxBrainstormsPerDay) {
		return apperrors.New(apperrors.CodeQuotaExceeded,
			fmt.Sprintf("daily brainstorm limit of %d reached", quota.MaxBrainstormsPerDay))
	}
	return nil
}

// CheckSessionStart 会话创建的日配额
func (s *Service) CheckSessionStart(ctx context.Context, tenantID string) error {
	quota, err := s.resolveQuota(ctx, tenantID)
	if err != nil {
		return err
	}
	if quota.MaxSessionsPerDay <= 0 {
		return nil
	}

	count, err := s.counters.IncrWithExpiry(ctx, dailyKey(tenantID, "session"), 48*time.Hour)
	if err != nil {
		return nil
	}
	if count > int64(quota.MaxSessionsPerDay) {
		return apperrors.New(apperrors.CodeQuotaExceeded,
			fmt.Sprintf("daily session limit of %d reached", quota.MaxSessionsPerDay))
	}
	return nil
}

// CheckProjectCreate 项目总数配额
func (s *Service) CheckProjectCreate(ctx context.Context, tenantID string) error {
	quota, err := s.resolveQuota(ctx, tenantID)
	if err != nil {
		return err
	}
	if quota.MaxProjects <= 0 {
		return nil
	}

	count, err := s.projects.CountByTenant(ctx, tenantID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "count tenant projects", err)
	}
	if count >= int64(quota.MaxProjects) {
		return apperrors.New(apperrors.CodeQuotaExceeded,
			fmt.Sprintf("project limit of %d reached for current plan", quota.MaxProjects))
	}
	return nil
}

func dailyKey(tenantID, kind string) string {
	return fmt.Sprintf("quota:%s:%s:%s", tenantID, kind, time.Now().UTC().Format("2006-01-02"))
}
