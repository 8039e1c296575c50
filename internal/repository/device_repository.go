package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/models"
)

var ErrDeviceNotFound = errors.New("device not found")

type DeviceRepository struct {
	pool *pgxpool.Pool
}

func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

// Upsert records a login binding; a returning device is reactivated
// with fresh metadata.
func (r *DeviceRepository) Upsert(ctx context.Context, device models.Device) error {
	const query = `
		INSERT INTO devices (id, user_id, user_agent, ip, is_active, last_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			user_agent = EXCLUDED.user_agent,
			ip = EXCLUDED.ip,
			is_active = TRUE,
			last_active = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		device.ID, device.UserID, device.UserAgent, device.IP,
	)
	return err
}

func (r *DeviceRepository) GetByID(ctx context.Context, id string) (models.Device, error) {
	const query = `
		SELECT id, user_id, user_agent, ip, is_active, last_active, created_at
		FROM devices WHERE id = $1
	`

	var device models.Device
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&device.ID,
		&device.UserID,
		&device.UserAgent,
		&device.IP,
		&device.IsActive,
		&device.LastActive,
		&device.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Device{}, ErrDeviceNotFound
		}
		return models.Device{}, err
	}
	return device, nil
}

func (r *DeviceRepository) Touch(ctx context.Context, id string, ip string, userAgent string) error {
	const query = `
		UPDATE devices
		SET last_active = NOW(),
		    ip = COALESCE(NULLIF($2, ''), ip),
		    user_agent = COALESCE(NULLIF($3, ''), user_agent)
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, ip, userAgent)
	return err
}

func (r *DeviceRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE devices SET is_active = FALSE, last_active = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *DeviceRepository) DeactivateStale(ctx context.Context, idleSince time.Time) (int64, error) {
	const query = `UPDATE devices SET is_active = FALSE WHERE is_active AND last_active < $1`
	cmd, err := r.pool.Exec(ctx, query, idleSince)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
