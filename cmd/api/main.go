package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/api/internal/cache"
	"storefront/api/internal/config"
	"storefront/api/internal/database"
	"storefront/api/internal/handlers"
	"storefront/api/internal/jobs"
	"storefront/api/internal/log"
	"storefront/api/internal/middleware"
	"storefront/api/internal/rbac"
	"storefront/api/internal/repository"
	"storefront/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := log.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()

	roleRepo := repository.NewRoleRepository(pool)
	resolver := rbac.NewResolver(roleRepo, cache.NewRedisStore(redisClient), cfg.RBAC.CacheTTL, logger)

	authn := middleware.NewAuthenticator(cfg, logger)
	guard := middleware.NewGuard(resolver, cfg.RBAC.Wildcard, logger)

	handlerSet := handlers.NewHandlerSet(logger, pool, redisClient, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, authn, guard)

	scheduler := jobs.NewScheduler(
		repository.NewRefreshTokenRepository(pool),
		repository.NewDeviceRepository(pool),
		logger,
	)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler start failed")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
