// Package main 系统初始化入口：建表并写入默认租户与管理员
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"viralspark-api/internal/config"
	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	fmt.Println("Bootstrap completed successfully.")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataLayer, cleanup, err := wire.InitializePostgresOnly(cfg)
	if err != nil {
		return fmt.Errorf("initialize data layer: %w", err)
	}
	defer cleanup()

	fmt.Println("Running schema migration...")
	if err := dataLayer.PgClient.DB().AutoMigrate(
		&entity.Tenant{},
		&entity.User{},
		&entity.Project{},
		&entity.BrainstormSession{},
		&entity.BrainstormMessage{},
		&entity.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	// 租户与管理员要么都写入要么都不写，放在同一个事务里
	ctx := context.Background()
	return dataLayer.TxManager.WithTransaction(ctx, func(ctx context.Context) error {
		tenantID, err := seedTenant(ctx, dataLayer)
		if err != nil {
			return err
		}
		return seedAdmin(ctx, dataLayer, tenantID)
	})
}

// seedTenant 确保默认租户存在，返回其 ID
func seedTenant(ctx context.Context, dataLayer *wire.PostgresOnlyDataLayer) (string, error) {
	slug := envOr("BOOTSTRAP_TENANT_SLUG", "default-tenant")

	exists, err := dataLayer.TenantRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("check tenant existence: %w", err)
	}
	if exists {
		tenant, err := dataLayer.TenantRepo.GetBySlug(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("get existing tenant: %w", err)
		}
		fmt.Printf("Default tenant already exists with ID: %s\n", tenant.ID)
		return tenant.ID, nil
	}

	fmt.Printf("Creating default tenant: %s...\n", slug)
	tenant := entity.NewTenant("Default Tenant", slug, entity.TenantPlanFree)
	if err := dataLayer.TenantRepo.Create(ctx, tenant); err != nil {
		return "", fmt.Errorf("create default tenant: %w", err)
	}
	fmt.Printf("Default tenant created with ID: %s\n", tenant.ID)
	return tenant.ID, nil
}

// seedAdmin 确保租户下的首个管理员存在
func seedAdmin(ctx context.Context, dataLayer *wire.PostgresOnlyDataLayer, tenantID string) error {
	email := envOr("BOOTSTRAP_ADMIN_EMAIL", "admin@viralspark.local")
	password := envOr("BOOTSTRAP_ADMIN_PASSWORD", "admin123") // 生产环境请务必通过环境变量设置

	exists, err := dataLayer.UserRepo.ExistsByEmail(ctx, tenantID, email)
	if err != nil {
		return fmt.Errorf("check admin existence: %w", err)
	}
	if exists {
		fmt.Printf("Admin user %s already exists.\n", email)
		return nil
	}

	fmt.Printf("Creating admin user: %s...\n", email)
	admin := entity.NewUser(tenantID, email, "System Admin")
	admin.Role = entity.UserRoleAdmin
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	fmt.Println("Admin user created successfully.")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
