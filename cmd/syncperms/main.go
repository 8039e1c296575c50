// Command syncperms reconciles the permission catalog with the declared
// route table and rebuilds the baseline ADMIN and CLIENT grants. Run it
// after every deployment that changes the route table.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"storefront/api/internal/config"
	"storefront/api/internal/database"
	"storefront/api/internal/log"
	"storefront/api/internal/rbac"
	"storefront/api/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := log.New(cfg.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	summary, err := rbac.NewSyncer(pool, logger).Run(ctx, routes.Declared())
	if err != nil {
		if errors.Is(err, rbac.ErrMissingBaselineRoles) {
			logger.Error().Msg("seed ADMIN and CLIENT roles before running sync")
		}
		logger.Fatal().Err(err).Msg("permission sync failed")
	}

	logger.Info().
		Int("added", summary.Added).
		Int("updated", summary.Updated).
		Int("removed", summary.Removed).
		Msg("sync finished")
}
