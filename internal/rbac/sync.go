package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
)

// ErrMissingBaselineRoles is returned when the ADMIN or CLIENT role is
// absent. Sync never creates roles: a missing baseline means the seed
// step has not run and continuing would leave a half-built catalog.
var ErrMissingBaselineRoles = errors.New("baseline roles ADMIN and CLIENT must exist before sync")

// DeclaredRoute is one entry of the route table handed to the sync
// job: the live source of truth the permission catalog is reconciled
// against.
type DeclaredRoute struct {
	Method string
	Path   string
	Label  string
}

// Key returns the canonical identity of the route in the catalog.
func (d DeclaredRoute) Key() string {
	return RouteKey(d.Method, d.Path)
}

type SyncSummary struct {
	Added       int
	Updated     int
	Removed     int
	AdminLinks  int
	ClientLinks int
}

type syncPlan struct {
	toAdd    []DeclaredRoute
	toUpdate []models.Permission
	toDelete []models.Permission
}

// planSync diffs the declared route table against the stored catalog.
// Declared duplicates collapse last-one-wins. Pure function so the
// reconciliation logic is testable without a database.
func planSync(existing []models.Permission, declared []DeclaredRoute) syncPlan {
	deduped := make([]DeclaredRoute, 0, len(declared))
	index := make(map[string]int, len(declared))
	for _, route := range declared {
		key := route.Key()
		if at, seen := index[key]; seen {
			deduped[at] = route
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, route)
	}

	existingByName := make(map[string]models.Permission, len(existing))
	for _, p := range existing {
		existingByName[p.Name] = p
	}

	var plan syncPlan
	for _, route := range deduped {
		row, ok := existingByName[route.Key()]
		if !ok {
			plan.toAdd = append(plan.toAdd, route)
			continue
		}
		path := cleanPath(route.Path)
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if row.Path != path || row.Method != method || row.Description != route.Label {
			row.Path = path
			row.Method = method
			row.Description = route.Label
			plan.toUpdate = append(plan.toUpdate, row)
		}
	}

	for _, p := range existing {
		if _, ok := index[p.Name]; !ok {
			plan.toDelete = append(plan.toDelete, p)
		}
	}

	return plan
}

// cleanPath keeps the template's casing but applies the structural
// normalization (collapsed and trailing separators) used for keys.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = slashRuns.ReplaceAllString(p, "/")
	return strings.TrimSuffix(p, "/")
}

// Syncer reconciles the permission catalog and rebuilds the baseline
// role grants in a single transaction. It is an administrative batch
// operation, expected to run single-flight.
type Syncer struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewSyncer(pool *pgxpool.Pool, log zerolog.Logger) *Syncer {
	return &Syncer{pool: pool, log: log}
}

func (s *Syncer) Run(ctx context.Context, declared []DeclaredRoute) (SyncSummary, error) {
	var summary SyncSummary

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return summary, fmt.Errorf("begin sync tx: %w", err)
	}
	defer tx.Rollback(ctx)

	adminID, clientID, err := baselineRoleIDs(ctx, tx)
	if err != nil {
		return summary, err
	}

	existing, err := loadPermissions(ctx, tx)
	if err != nil {
		return summary, err
	}

	plan := planSync(existing, declared)

	batch := &pgx.Batch{}
	for _, p := range plan.toDelete {
		// Routes that no longer exist are removed outright; soft
		// delete is reserved for administrative permission edits.
		batch.Queue(`DELETE FROM role_permissions WHERE permission_id = $1`, p.ID)
		batch.Queue(`DELETE FROM permissions WHERE id = $1`, p.ID)
	}
	for _, p := range plan.toUpdate {
		batch.Queue(
			`UPDATE permissions SET path = $2, method = $3, description = $4, updated_at = NOW() WHERE id = $1`,
			p.ID, p.Path, p.Method, p.Description,
		)
	}
	for _, route := range plan.toAdd {
		batch.Queue(
			`INSERT INTO permissions (id, name, description, path, method, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
			ids.New(), route.Key(), route.Label, cleanPath(route.Path), strings.ToUpper(strings.TrimSpace(route.Method)),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return summary, fmt.Errorf("apply permission diff: %w", err)
		}
	}

	summary.Added = len(plan.toAdd)
	summary.Updated = len(plan.toUpdate)
	summary.Removed = len(plan.toDelete)

	// Rebuild role grants from scratch so no stale link survives a
	// route rename or removal.
	current, err := loadPermissions(ctx, tx)
	if err != nil {
		return summary, err
	}

	adminLinks := current
	clientLinks := current[:0:0]
	for _, p := range current {
		if ClientAllowed(p.Method, p.Path) {
			clientLinks = append(clientLinks, p)
		}
	}

	if summary.AdminLinks, err = rebuildLinks(ctx, tx, adminID, adminLinks); err != nil {
		return summary, err
	}
	if summary.ClientLinks, err = rebuildLinks(ctx, tx, clientID, clientLinks); err != nil {
		return summary, err
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, fmt.Errorf("commit sync tx: %w", err)
	}

	s.log.Info().
		Int("added", summary.Added).
		Int("updated", summary.Updated).
		Int("removed", summary.Removed).
		Int("admin_links", summary.AdminLinks).
		Int("client_links", summary.ClientLinks).
		Msg("permission sync complete")

	return summary, nil
}

func baselineRoleIDs(ctx context.Context, tx pgx.Tx) (adminID string, clientID string, err error) {
	rows, err := tx.Query(ctx,
		`SELECT id, name FROM roles WHERE name = ANY($1) AND deleted_at IS NULL`,
		[]string{RoleAdmin, RoleClient},
	)
	if err != nil {
		return "", "", fmt.Errorf("load baseline roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return "", "", err
		}
		switch name {
		case RoleAdmin:
			adminID = id
		case RoleClient:
			clientID = id
		}
	}
	if err := rows.Err(); err != nil {
		return "", "", err
	}
	if adminID == "" || clientID == "" {
		return "", "", ErrMissingBaselineRoles
	}
	return adminID, clientID, nil
}

func loadPermissions(ctx context.Context, tx pgx.Tx) ([]models.Permission, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, name, description, path, method FROM permissions WHERE deleted_at IS NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Path, &p.Method); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func rebuildLinks(ctx context.Context, tx pgx.Tx, roleID string, perms []models.Permission) (int, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return 0, fmt.Errorf("clear role links: %w", err)
	}
	if len(perms) == 0 {
		return 0, nil
	}

	links := make([][]any, 0, len(perms))
	for _, p := range perms {
		links = append(links, []any{roleID, p.ID})
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"role_permissions"},
		[]string{"role_id", "permission_id"},
		pgx.CopyFromRows(links),
	)
	if err != nil {
		return 0, fmt.Errorf("insert role links: %w", err)
	}
	return int(n), nil
}
