package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"storefront/api/internal/repository"
)

const staleDeviceAge = 30 * 24 * time.Hour

// Scheduler owns the background maintenance jobs: purging expired
// refresh tokens and deactivating devices nobody has used in a month.
type Scheduler struct {
	cron    *cron.Cron
	tokens  *repository.RefreshTokenRepository
	devices *repository.DeviceRepository
	log     zerolog.Logger
}

func NewScheduler(
	tokens *repository.RefreshTokenRepository,
	devices *repository.DeviceRepository,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		tokens:  tokens,
		devices: devices,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purgeExpiredTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.deactivateStaleDevices); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Msg("job scheduler started")
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("job scheduler stopped")
}

func (s *Scheduler) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.tokens.PurgeExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("refresh token purge failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired refresh tokens purged")
	}
}

func (s *Scheduler) deactivateStaleDevices() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	updated, err := s.devices.DeactivateStale(ctx, time.Now().Add(-staleDeviceAge))
	if err != nil {
		s.log.Error().Err(err).Msg("stale device sweep failed")
		return
	}
	if updated > 0 {
		s.log.Info().Int64("deactivated", updated).Msg("stale devices deactivated")
	}
}
