package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	apperrors "viralspark-api/pkg/errors"
)

type fakeTenantRepo struct {
	repository.TenantRepository
	tenant *entity.Tenant
	err    error
}

func (f *fakeTenantRepo) GetByID(_ context.Context, _ string) (*entity.Tenant, error) {
	return f.tenant, f.err
}

type fakeProjectRepo struct {
	repository.ProjectRepository
	count int64
	err   error
}

func (f *fakeProjectRepo) CountByTenant(_ context.Context, _ string) (int64, error) {
	return f.count, f.err
}

type fakeCounter struct {
	count int64
	err   error
}

func (f *fakeCounter) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	f.count++
	return f.count, f.err
}

func activeTenant(plan entity.TenantPlan) *entity.Tenant {
	return &entity.Tenant{
		ID:     "t1",
		Status: entity.TenantStatusActive,
		Plan:   plan,
	}
}

func TestCheckBrainstormTurnWithinLimit(t *testing.T) {
	svc := NewService(
		&fakeTenantRepo{tenant: activeTenant(entity.TenantPlanFree)},
		&fakeProjectRepo{},
		&fakeCounter{},
		nil,
	)

	err := svc.CheckBrainstormTurn(context.Background(), "t1")
	assert.NoError(t, err)
}

func TestCheckBrainstormTurnOverLimit(t *testing.T) {
	limit := entity.DefaultQuotaForPlan(entity.TenantPlanFree).MaxBrainstormsPerDay
	counter := &fakeCounter{count: int64(limit)}
	svc := NewService(
		&fakeTenantRepo{tenant: activeTenant(entity.TenantPlanFree)},
		&fakeProjectRepo{},
		counter,
		nil,
	)

	err := svc.CheckBrainstormTurn(context.Background(), "t1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeQuotaExceeded, appErr.Code)
}

func TestCheckBrainstormTurnQuotaOverride(t *testing.T) {
	tenant := activeTenant(entity.TenantPlanFree)
	tenant.Quota = &entity.TenantQuota{MaxBrainstormsPerDay: 1}
	counter := &fakeCounter{count: 1}
	svc := NewService(&fakeTenantRepo{tenant: tenant}, &fakeProjectRepo{}, counter, nil)

	err := svc.CheckBrainstormTurn(context.Background(), "t1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeQuotaExceeded, appErr.Code)
}

func TestCheckBrainstormTurnSuspendedTenant(t *testing.T) {
	tenant := activeTenant(entity.TenantPlanFree)
	tenant.Status = entity.TenantStatusSuspended
	svc := NewService(&fakeTenantRepo{tenant: tenant}, &fakeProjectRepo{}, &fakeCounter{}, nil)

	err := svc.CheckBrainstormTurn(context.Background(), "t1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodePlanRestricted, appErr.Code)
}

func TestCheckBrainstormTurnCounterUnavailable(t *testing.T) {
	// 计数服务故障时放行，配额是软限制
	counter := &fakeCounter{err: errors.New("redis down")}
	svc := NewService(
		&fakeTenantRepo{tenant: activeTenant(entity.TenantPlanFree)},
		&fakeProjectRepo{},
		counter,
		nil,
	)

	err := svc.CheckBrainstormTurn(context.Background(), "t1")
	assert.NoError(t, err)
}

func TestCheckProjectCreateAtLimit(t *testing.T) {
	limit := entity.DefaultQuotaForPlan(entity.TenantPlanFree).MaxProjects
	svc := NewService(
		&fakeTenantRepo{tenant: activeTenant(entity.TenantPlanFree)},
		&fakeProjectRepo{count: int64(limit)},
		&fakeCounter{},
		nil,
	)

	err := svc.CheckProjectCreate(context.Background(), "t1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeQuotaExceeded, appErr.Code)
}

func TestCheckProjectCreateUnderLimit(t *testing.T) {
	svc := NewService(
		&fakeTenantRepo{tenant: activeTenant(entity.TenantPlanBusiness)},
		&fakeProjectRepo{count: 1},
		&fakeCounter{},
		nil,
	)

	err := svc.CheckProjectCreate(context.Background(), "t1")
	assert.NoError(t, err)
}

func TestCheckSessionStartUnlimitedPlan(t *testing.T) {
	tenant := activeTenant(entity.TenantPlanBusiness)
	tenant.Quota = &entity.TenantQuota{MaxSessionsPerDay: 0}
	svc := NewService(&fakeTenantRepo{tenant: tenant}, &fakeProjectRepo{}, &fakeCounter{}, nil)

	err := svc.CheckSessionStart(context.Background(), "t1")
	assert.NoError(t, err)
}
