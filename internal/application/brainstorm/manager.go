package brainstorm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	apperrors "viralspark-api/pkg/errors"
	"viralspark-api/pkg/logger"
)

// ManagerDeps 管理器依赖
type ManagerDeps struct {
	Sessions  repository.BrainstormSessionRepository
	Store     MessageStore
	Publisher Publisher
	Completer Completer
	Sleeper   Sleeper

	ThinkingDelay     time.Duration
	CompletionTimeout time.Duration
	HistoryLimit      int
}

// Manager 按项目托管引擎实例。
// 同一进程内一个项目只有一个引擎，轮次经由引擎内部锁串行化；
// 跨进程的并发由消息 ID 幂等与 Timeline 去重收敛。
type Manager struct {
	deps ManagerDeps

	mu      sync.Mutex
	engines map[string]*managedSession
	init    singleflight.Group
}

// managedSession 持有引擎与其会话行。
// mu 保护 session：快照写入与同项目的并发轮次可能交错。
type managedSession struct {
	engine *Engine

	mu      sync.Mutex
	session *entity.BrainstormSession
}

// NewManager 创建会话管理器
func NewManager(deps ManagerDeps) *Manager {
	return &Manager{
		deps:    deps,
		engines: make(map[string]*managedSession),
	}
}

func sessionKey(tenantID, projectID string) string {
	return tenantID + ":" + projectID
}

// Acquire 获取项目的引擎，必要时恢复或创建会话。
// 初始化走 singleflight，同一项目的并发首访只触发一次加载，
// 且慢的数据库调用不会阻塞其他项目的获取。
func (m *Manager) Acquire(ctx context.Context, tenantID, projectID, userID string) (*Engine, error) {
	key := sessionKey(tenantID, projectID)

	m.mu.Lock()
	ms, ok := m.engines[key]
	m.mu.Unlock()
	if ok {
		return ms.engine, nil
	}

	result, err, _ := m.init.Do(key, func() (interface{}, error) {
		m.mu.Lock()
		ms, ok := m.engines[key]
		m.mu.Unlock()
		if ok {
			return ms, nil
		}
		return m.bootstrapSession(ctx, key, tenantID, projectID, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*managedSession).engine, nil
}

// bootstrapSession 加载或新建会话行并启动引擎，成功后登记到 engines
func (m *Manager) bootstrapSession(ctx context.Context, key, tenantID, projectID, userID string) (*managedSession, error) {
	session, err := m.deps.Sessions.GetActiveByProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "load brainstorm session", err)
	}
	if session == nil {
		session = entity.NewBrainstormSession(tenantID, projectID, userID)
		if err := m.deps.Sessions.Create(ctx, session); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "create brainstorm session", err)
		}
	}

	engine := NewEngine(Options{
		TenantID:          tenantID,
		ProjectID:         projectID,
		UserID:            userID,
		Store:             m.deps.Store,
		Publisher:         m.deps.Publisher,
		Completer:         m.deps.Completer,
		Sleeper:           m.deps.Sleeper,
		ThinkingDelay:     m.deps.ThinkingDelay,
		CompletionTimeout: m.deps.CompletionTimeout,
		HistoryLimit:      m.deps.HistoryLimit,
	})
	engine.Restore(session.Step, session.Config)

	if err := engine.Start(ctx); err != nil {
		return nil, err
	}

	ms := &managedSession{engine: engine, session: session}
	m.mu.Lock()
	m.engines[key] = ms
	m.mu.Unlock()
	return ms, nil
}

// UserInput 处理一条自由文本输入并持久化会话快照
func (m *Manager) UserInput(ctx context.Context, tenantID, projectID, userID, text string) (*Engine, error) {
	engine, err := m.Acquire(ctx, tenantID, projectID, userID)
	if err != nil {
		return nil, err
	}
	if err := engine.HandleUserInput(ctx, text); err != nil {
		return engine, err
	}
	m.snapshot(ctx, tenantID, projectID, engine)
	return engine, nil
}

// OptionSelected 处理一次选项点击并持久化会话快照
func (m *Manager) OptionSelected(ctx context.Context, tenantID, projectID, userID, optionID, value string) (*Engine, error) {
	engine, err := m.Acquire(ctx, tenantID, projectID, userID)
	if err != nil {
		return nil, err
	}
	if err := engine.HandleOptionSelected(ctx, optionID, value); err != nil {
		return engine, err
	}
	m.snapshot(ctx, tenantID, projectID, engine)
	return engine, nil
}

// Reset 重置项目会话，失败时保持原状态
func (m *Manager) Reset(ctx context.Context, tenantID, projectID, userID string) (*Engine, error) {
	engine, err := m.Acquire(ctx, tenantID, projectID, userID)
	if err != nil {
		return nil, err
	}
	if err := engine.Reset(ctx); err != nil {
		return engine, err
	}
	m.snapshot(ctx, tenantID, projectID, engine)
	return engine, nil
}

// snapshot 把引擎当前阶段与配置写回会话行。
// 会话行在并发轮次间共享，写入与 Update 都在会话锁内进行。
// 快照是恢复用的辅助数据，失败只记日志不回滚轮次。
func (m *Manager) snapshot(ctx context.Context, tenantID, projectID string, engine *Engine) {
	m.mu.Lock()
	ms, ok := m.engines[sessionKey(tenantID, projectID)]
	m.mu.Unlock()
	if !ok {
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.session.Step = engine.Step()
	ms.session.Config = engine.Config()
	if err := m.deps.Sessions.Update(ctx, ms.session); err != nil {
		ctx = logger.WithContext(ctx, logger.SessionIDKey, ms.session.ID)
		logger.Warn(ctx, "persist session snapshot failed", "error", err, "project_id", projectID)
	}
}
