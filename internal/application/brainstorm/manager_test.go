package brainstorm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralspark-api/internal/domain/entity"
)

// fakeSessionRepo 内存会话仓储
type fakeSessionRepo struct {
	mu       sync.Mutex
	active   *entity.BrainstormSession
	creates  int
	updates  int
	lastStep entity.FlowStep
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.BrainstormSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.active = session
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, _ string) (*entity.BrainstormSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, nil
}

func (r *fakeSessionRepo) GetByIDForUpdate(_ context.Context, _ string) (*entity.BrainstormSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, nil
}

func (r *fakeSessionRepo) GetActiveByProject(_ context.Context, _, _ string) (*entity.BrainstormSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.BrainstormSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.lastStep = session.Step
	return nil
}

func newTestManager(sessions *fakeSessionRepo, store *fakeStore, completer *fakeCompleter) *Manager {
	return NewManager(ManagerDeps{
		Sessions:  sessions,
		Store:     store,
		Publisher: NopPublisher{},
		Completer: completer,
		Sleeper:   instantSleeper{},
	})
}

func TestAcquireCreatesSessionOnFirstUse(t *testing.T) {
	sessions := &fakeSessionRepo{}
	m := newTestManager(sessions, &fakeStore{}, &fakeCompleter{})

	engine, err := m.Acquire(context.Background(), "t1", "p1", "u1")
	require.NoError(t, err)
	require.NotNil(t, engine)
	assert.Equal(t, 1, sessions.creates)
}

func TestAcquireReturnsCachedEngine(t *testing.T) {
	sessions := &fakeSessionRepo{}
	m := newTestManager(sessions, &fakeStore{}, &fakeCompleter{})

	first, err := m.Acquire(context.Background(), "t1", "p1", "u1")
	require.NoError(t, err)
	second, err := m.Acquire(context.Background(), "t1", "p1", "u2")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, sessions.creates)
}

func TestAcquireRestoresPersistedStep(t *testing.T) {
	session := entity.NewBrainstormSession("t1", "p1", "u1")
	session.Step = entity.FlowStepAudience
	session.Config = entity.FlowConfig{Platform: "tiktok", ContentType: "tutorial"}
	sessions := &fakeSessionRepo{active: session}
	m := newTestManager(sessions, &fakeStore{}, &fakeCompleter{})

	engine, err := m.Acquire(context.Background(), "t1", "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.FlowStepAudience, engine.Step())
	assert.Equal(t, "tiktok", engine.Config().Platform)
	assert.Equal(t, 0, sessions.creates)
}

func TestUserInputPersistsSnapshot(t *testing.T) {
	sessions := &fakeSessionRepo{}
	m := newTestManager(sessions, &fakeStore{}, &fakeCompleter{})

	engine, err := m.UserInput(context.Background(), "t1", "p1", "u1", "hello")
	require.NoError(t, err)
	require.NotNil(t, engine)

	assert.Equal(t, 1, sessions.updates)
	assert.Equal(t, engine.Step(), sessions.lastStep)
}

func TestConcurrentInputsSnapshotSafely(t *testing.T) {
	sessions := &fakeSessionRepo{}
	m := newTestManager(sessions, &fakeStore{}, &fakeCompleter{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.UserInput(context.Background(), "t1", "p1", "u1", "shorts")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, sessions.creates)
	assert.Equal(t, 8, sessions.updates)
}

func TestDistinctProjectsGetDistinctEngines(t *testing.T) {
	sessions := &fakeSessionRepo{}
	m := newTestManager(sessions, &fakeStore{}, &fakeCompleter{})

	a, err := m.Acquire(context.Background(), "t1", "p1", "u1")
	require.NoError(t, err)

	// 第二个项目会覆盖 fake 仓储里的 active 会话，但引擎缓存按项目区分
	b, err := m.Acquire(context.Background(), "t1", "p2", "u1")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestResetPersistsWelcomeStep(t *testing.T) {
	sessions := &fakeSessionRepo{}
	store := &fakeStore{}
	m := newTestManager(sessions, store, &fakeCompleter{})

	_, err := m.UserInput(context.Background(), "t1", "p1", "u1", "hello")
	require.NoError(t, err)

	engine, err := m.Reset(context.Background(), "t1", "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.FlowStepWelcome, engine.Step())
	assert.Equal(t, entity.FlowStepWelcome, sessions.lastStep)
}
