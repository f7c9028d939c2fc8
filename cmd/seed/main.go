package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/todo-tenant-api/config"
	"github.com/oksasatya/todo-tenant-api/internal/application"
	pginfra "github.com/oksasatya/todo-tenant-api/internal/infrastructure/postgres"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
)

// seed creates the initial admin and a demo tenant on the PREMIUM tier.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("invalid JWT_SECRET: %v", err)
	}
	users := pginfra.NewUserRepository(pool)
	auth := application.NewAuthService(users, helpers.NewPasswordHasher(cfg.BcryptCost), jwtManager, logger)
	subs := application.NewSubscriptionService(users, logger)
	tenants := application.NewTenantService(users, auth, subs, logger)

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is required to seed the admin")
	}
	created, err := auth.EnsureInitialAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("admin: email=%s created=%t\n", cfg.AdminEmail, created)
	defer printUserCount(ctx, users)

	email := envOr("SEED_TENANT_EMAIL", "demo@todo.local")
	password := os.Getenv("SEED_TENANT_PASSWORD")
	if password == "" {
		fmt.Println("SEED_TENANT_PASSWORD not set; skipping demo tenant")
		return
	}
	admin, err := auth.ResolvePrincipal(ctx, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("failed to load admin: %v", err)
	}
	v, err := tenants.Create(ctx, *admin, application.CreateTenantInput{
		Email:    email,
		Password: password,
		Name:     "Demo Tenant",
		Tier:     "PREMIUM",
	}, application.Meta{UserAgent: "seed"})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		fmt.Printf("tenant already exists: email=%s\n", email)
	case err != nil:
		log.Fatalf("failed to seed tenant: %v", err)
	default:
		fmt.Printf("seeded tenant: id=%s email=%s tier=%s\n", v.ID, v.Email, v.Subscription.Tier)
	}
}

func printUserCount(ctx context.Context, users *pginfra.UserRepository) {
	n, err := users.Count(ctx)
	if err != nil {
		log.Printf("count users: %v", err)
		return
	}
	fmt.Printf("users in store: %d\n", n)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
