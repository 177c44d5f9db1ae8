//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"viralspark-api/internal/application/audit"
	"viralspark-api/internal/application/brainstorm"
	"viralspark-api/internal/application/quota"
	"viralspark-api/internal/config"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/infrastructure/llm"
	"viralspark-api/internal/infrastructure/messaging"
	"viralspark-api/internal/infrastructure/persistence/postgres"
	"viralspark-api/internal/infrastructure/persistence/redis"
	"viralspark-api/internal/interfaces/http/handler"
	"viralspark-api/internal/interfaces/http/middleware"
	"viralspark-api/internal/interfaces/http/router"
	"viralspark-api/internal/workflow/chain"
	workflowport "viralspark-api/internal/workflow/port"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		BrainstormSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewTenantRepository,
	postgres.NewUserRepository,
	postgres.NewProjectRepository,
	postgres.NewBrainstormSessionRepository,
	postgres.NewBrainstormMessageRepository,
	postgres.NewAuditLogRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.TenantRepository), new(*postgres.TenantRepository)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ProjectRepository), new(*postgres.ProjectRepository)),
	wire.Bind(new(repository.BrainstormSessionRepository), new(*postgres.BrainstormSessionRepository)),
	wire.Bind(new(repository.BrainstormMessageRepository), new(*postgres.BrainstormMessageRepository)),
	wire.Bind(new(repository.AuditLogRepository), new(*postgres.AuditLogRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(quota.CounterStore), new(*redis.Client)),
	wire.Bind(new(quota.MetaCache), new(*redis.Cache)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideChatSubscriber,
	wire.Bind(new(brainstorm.Publisher), new(*messaging.Producer)),
	wire.Bind(new(middleware.AuditSink), new(*messaging.Producer)),
)

// BrainstormSet 灵感会话核心提供者集合
var BrainstormSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	chain.NewBrainstormChain,
	llm.NewChainCompleter,
	wire.Bind(new(brainstorm.Completer), new(*llm.ChainCompleter)),
	brainstorm.NewRepositoryStore,
	ProvideSleeper,
	ProvideBrainstormManager,
	quota.NewService,
	audit.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthConfig,
	ProvideAuthHandler,
	handler.NewHealthHandler,
	handler.NewProjectHandler,
	handler.NewBrainstormHandler,
	handler.NewChatWSHandler,
	handler.NewAdminHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
