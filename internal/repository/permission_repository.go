package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/models"
)

var (
	ErrPermissionNotFound = errors.New("permission not found")
	ErrPermissionExists   = errors.New("permission already exists")
)

const permissionColumns = `
	id, name, description, path, method, created_by_id, updated_by_id,
	created_at, updated_at, deleted_at
`

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func scanPermission(row pgx.Row) (models.Permission, error) {
	var p models.Permission
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Path,
		&p.Method,
		&p.CreatedByID,
		&p.UpdatedByID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Permission{}, ErrPermissionNotFound
		}
		return models.Permission{}, err
	}
	return p, nil
}

func (r *PermissionRepository) Create(ctx context.Context, p models.Permission) error {
	const query = `
		INSERT INTO permissions (
			id, name, description, path, method, created_by_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Path, p.Method, p.CreatedByID,
	)
	if isUniqueViolation(err) {
		return ErrPermissionExists
	}
	return err
}

// ExistsByRoute enforces the (path, method) uniqueness invariant among
// non-deleted permissions.
func (r *PermissionRepository) ExistsByRoute(ctx context.Context, path string, method string, excludeID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM permissions
			WHERE path = $1 AND method = $2 AND deleted_at IS NULL AND id <> $3
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, path, method, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PermissionRepository) GetByID(ctx context.Context, id string) (models.Permission, error) {
	const query = `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1 AND deleted_at IS NULL`
	return scanPermission(r.pool.QueryRow(ctx, query, id))
}

func (r *PermissionRepository) List(ctx context.Context, limit int, offset int) ([]models.Permission, error) {
	const query = `
		SELECT ` + permissionColumns + `
		FROM permissions
		WHERE deleted_at IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *PermissionRepository) Update(ctx context.Context, p models.Permission) error {
	const query = `
		UPDATE permissions
		SET name = $2, description = $3, path = $4, method = $5, updated_by_id = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Path, p.Method, p.UpdatedByID,
	)
	if isUniqueViolation(err) {
		return ErrPermissionExists
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

// SoftDelete marks an administratively removed permission. Hard
// deletion is reserved for the sync job when a route disappears.
func (r *PermissionRepository) SoftDelete(ctx context.Context, id string, deletedByID string) error {
	const query = `
		UPDATE permissions SET deleted_at = NOW(), updated_by_id = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, deletedByID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

// AssignRoles replaces the set of roles holding this permission, in a
// single transaction.
func (r *PermissionRepository) AssignRoles(ctx context.Context, permissionID string, roleIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assign tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE permission_id = $1`, permissionID); err != nil {
		return err
	}

	if len(roleIDs) > 0 {
		rows := make([][]any, 0, len(roleIDs))
		seen := make(map[string]struct{}, len(roleIDs))
		for _, id := range roleIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rows = append(rows, []any{id, permissionID})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"role_permissions"},
			[]string{"role_id", "permission_id"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("insert permission roles: %w", err)
		}
	}

	return tx.Commit(ctx)
}
