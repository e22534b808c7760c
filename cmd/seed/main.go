package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/americas-iot/sims-portal/internal/config"
	"github.com/americas-iot/sims-portal/internal/domain"
	"github.com/americas-iot/sims-portal/internal/observability"
	"github.com/americas-iot/sims-portal/internal/persistence"
	"github.com/americas-iot/sims-portal/internal/repository"
	"github.com/americas-iot/sims-portal/internal/service"
)

// Seeds the two test identities used by the portal's smoke checks.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required for seeding")
	}

	if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	users := service.NewUserService(*cfg, repository.NewUserRepository(pool), nil)

	seeds := []service.CreateInput{
		{
			Nombre:    "Test",
			Apellidos: "Admin",
			Email:     "test.admin@americaiot.com",
			Telefono:  "5551234567",
			Username:  "test_admin",
			Password:  "americaiot_test_admin",
			Rol:       domain.RoleAdmin,
			Status:    domain.UserStatusActive,
		},
		{
			Nombre:    "Test",
			Apellidos: "User",
			Email:     "test.user@americaiot.com",
			Telefono:  "5559876543",
			Username:  "test_user",
			Password:  "americaiot_test_user",
			Rol:       domain.RoleUser,
			Status:    domain.UserStatusActive,
		},
	}

	for _, seed := range seeds {
		user, err := users.Create(ctx, seed)
		if err != nil {
			logger.Error("seed user failed", zap.String("username", seed.Username), zap.Error(err))
			continue
		}
		logger.Info("seed user created",
			zap.String("id", user.ID),
			zap.String("username", user.Username),
			zap.String("rol", string(user.Rol)),
		)
	}
}
