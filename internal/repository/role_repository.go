package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/models"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role already exists")
)

const roleColumns = `
	id, name, slug, description, is_active, created_by_id, updated_by_id,
	created_at, updated_at, deleted_at
`

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func scanRole(row pgx.Row) (models.Role, error) {
	var role models.Role
	if err := row.Scan(
		&role.ID,
		&role.Name,
		&role.Slug,
		&role.Description,
		&role.IsActive,
		&role.CreatedByID,
		&role.UpdatedByID,
		&role.CreatedAt,
		&role.UpdatedAt,
		&role.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, ErrRoleNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}

func (r *RoleRepository) Create(ctx context.Context, role models.Role) error {
	const query = `
		INSERT INTO roles (
			id, name, slug, description, is_active, created_by_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		role.ID,
		role.Name,
		role.Slug,
		role.Description,
		role.IsActive,
		role.CreatedByID,
	)
	if isUniqueViolation(err) {
		return ErrRoleExists
	}
	return err
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (models.Role, error) {
	const query = `SELECT ` + roleColumns + ` FROM roles WHERE id = $1 AND deleted_at IS NULL`
	return scanRole(r.pool.QueryRow(ctx, query, id))
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (models.Role, error) {
	const query = `
		SELECT ` + roleColumns + `
		FROM roles
		WHERE (name = $1 OR slug = $2) AND deleted_at IS NULL
	`
	return scanRole(r.pool.QueryRow(ctx, query, name, strings.ToLower(name)))
}

func (r *RoleRepository) List(ctx context.Context, limit int, offset int) ([]models.Role, error) {
	const query = `
		SELECT ` + roleColumns + `
		FROM roles
		WHERE deleted_at IS NULL
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) Update(ctx context.Context, role models.Role) error {
	const query = `
		UPDATE roles
		SET name = $2, slug = $3, description = $4, is_active = $5, updated_by_id = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query,
		role.ID, role.Name, role.Slug, role.Description, role.IsActive, role.UpdatedByID,
	)
	if isUniqueViolation(err) {
		return ErrRoleExists
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) SoftDelete(ctx context.Context, id string, deletedByID string) error {
	const query = `
		UPDATE roles SET deleted_at = NOW(), updated_by_id = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, deletedByID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) Restore(ctx context.Context, id string) error {
	const query = `
		UPDATE roles SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// AssignPermissions replaces the role's entire permission set. The
// delete and inserts run in one transaction so concurrent assignment
// calls cannot leave a partial set behind.
func (r *RoleRepository) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assign tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}

	if len(permissionIDs) > 0 {
		rows := make([][]any, 0, len(permissionIDs))
		seen := make(map[string]struct{}, len(permissionIDs))
		for _, id := range permissionIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rows = append(rows, []any{roleID, id})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"role_permissions"},
			[]string{"role_id", "permission_id"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("insert role permissions: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// SetUserRole replaces the user's single role.
func (r *RoleRepository) SetUserRole(ctx context.Context, userID string, roleID string) error {
	const query = `
		UPDATE users SET role_id = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, userID, roleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PermissionsByRoleName feeds the role resolver: permissions granted
// to an active, non-deleted role, excluding soft-deleted permissions.
// A missing role yields a nil slice, not an error.
func (r *RoleRepository) PermissionsByRoleName(ctx context.Context, roleName string) ([]models.PermissionTriple, error) {
	const query = `
		SELECT p.name, p.path, p.method
		FROM roles ro
		JOIN role_permissions rp ON rp.role_id = ro.id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE (ro.name = $1 OR ro.slug = $2)
		  AND ro.is_active AND ro.deleted_at IS NULL
		  AND p.deleted_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, roleName, strings.ToLower(roleName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triples []models.PermissionTriple
	for rows.Next() {
		var t models.PermissionTriple
		if err := rows.Scan(&t.Name, &t.Path, &t.Method); err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, rows.Err()
}
