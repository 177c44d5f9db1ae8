// Package wire 提供依赖注入配置
package wire

import (
	"time"

	"viralspark-api/internal/application/brainstorm"
	"viralspark-api/internal/config"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/infrastructure/messaging"
	"viralspark-api/internal/infrastructure/persistence/postgres"
	"viralspark-api/internal/infrastructure/persistence/redis"
	"viralspark-api/internal/interfaces/http/handler"
	"viralspark-api/internal/interfaces/http/middleware"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	TenantRepo   *postgres.TenantRepository
	UserRepo     *postgres.UserRepository
	ProjectRepo  *postgres.ProjectRepository
	SessionRepo  *postgres.BrainstormSessionRepository
	MessageRepo  *postgres.BrainstormMessageRepository
	AuditLogRepo *postgres.AuditLogRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideChatSubscriber 提供会话流订阅器
func ProvideChatSubscriber(redisClient *redis.Client, cfg *config.Config) *messaging.ChatSubscriber {
	return messaging.NewChatSubscriber(redisClient.Redis(), cfg.Messaging.RedisStream.BlockTimeout)
}

// ProvideSleeper 提供生产环境的时间端口
func ProvideSleeper() brainstorm.Sleeper {
	return brainstorm.NewRealSleeper()
}

// ProvideBrainstormManager 提供按项目托管的引擎管理器
func ProvideBrainstormManager(
	cfg *config.Config,
	sessions repository.BrainstormSessionRepository,
	store brainstorm.MessageStore,
	publisher brainstorm.Publisher,
	completer brainstorm.Completer,
	sleeper brainstorm.Sleeper,
) *brainstorm.Manager {
	return brainstorm.NewManager(brainstorm.ManagerDeps{
		Sessions:          sessions,
		Store:             store,
		Publisher:         publisher,
		Completer:         completer,
		Sleeper:           sleeper,
		ThinkingDelay:     cfg.Assistant.ThinkingDelay,
		CompletionTimeout: cfg.Assistant.CompletionTimeout,
		HistoryLimit:      cfg.Assistant.HistoryLimit,
	})
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:    cfg.Security.JWT.Secret,
		Issuer:    cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(
	cfg *config.Config,
	authCfg middleware.AuthConfig,
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
) *handler.AuthHandler {
	accessTTL := cfg.Security.JWT.Expiration
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.Security.JWT.RefreshExpiration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return handler.NewAuthHandler(authCfg, accessTTL, refreshTTL, userRepo, tenantRepo)
}
