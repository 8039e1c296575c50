package rbac

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storefront/api/internal/cache"
	"storefront/api/internal/models"
)

// Set is an effective permission set. Members are normalized
// permission names and "method /path" route keys.
type Set map[string]struct{}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Set) add(key string) {
	if key != "" {
		s[key] = struct{}{}
	}
}

// PermissionSource loads the permission triples granted to a role.
// A nil slice means the role is missing, inactive, or has no grants.
type PermissionSource interface {
	PermissionsByRoleName(ctx context.Context, roleName string) ([]models.PermissionTriple, error)
}

// Resolver computes effective permission sets through the static role
// hierarchy, with a TTL cache in front of the permission store.
type Resolver struct {
	source PermissionSource
	store  cache.Store
	ttl    time.Duration
	log    zerolog.Logger
}

func NewResolver(source PermissionSource, store cache.Store, ttl time.Duration, log zerolog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &Resolver{
		source: source,
		store:  store,
		ttl:    ttl,
		log:    log,
	}
}

func fullCacheKey(role string) string  { return "permissions_full_" + role }
func namesCacheKey(role string) string { return "permissions_names_" + role }

// ResolvePermissions returns the union of the role's own permissions
// and those of every role it transitively inherits. An unknown role
// yields an empty set, not an error: callers treat empty as no access.
func (r *Resolver) ResolvePermissions(ctx context.Context, roleName string) (Set, error) {
	effective := make(Set)

	for _, role := range ExpandRoles(roleName) {
		if !KnownRole(role) {
			r.log.Warn().Str("role", role).Msg("unknown role name")
			continue
		}

		triples, err := r.rolePermissions(ctx, role)
		if err != nil {
			return nil, err
		}

		for _, t := range triples {
			effective.add(Normalize(t.Name))
			effective.add(RouteKey(t.Method, t.Path))
		}
	}

	return effective, nil
}

func (r *Resolver) rolePermissions(ctx context.Context, role string) ([]models.PermissionTriple, error) {
	cached, hit, err := r.store.Get(ctx, fullCacheKey(role))
	if err != nil {
		return nil, err
	}
	if hit {
		var triples []models.PermissionTriple
		if err := json.Unmarshal(cached, &triples); err == nil {
			return triples, nil
		}
		// Unreadable entry: fall through and recompute.
		r.log.Warn().Str("role", role).Msg("dropping corrupt permission cache entry")
	}

	triples, err := r.source.PermissionsByRoleName(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("load permissions for role %s: %w", role, err)
	}

	if len(triples) == 0 {
		// A revoked or emptied role must not keep serving a stale
		// non-empty cache entry.
		r.log.Warn().Str("role", role).Msg("role has no permissions")
		if err := r.store.Delete(ctx, fullCacheKey(role), namesCacheKey(role)); err != nil {
			r.log.Warn().Err(err).Str("role", role).Msg("permission cache invalidation failed")
		}
		return nil, nil
	}

	if err := r.populateCache(ctx, role, triples); err != nil {
		r.log.Warn().Err(err).Str("role", role).Msg("permission cache populate failed")
	}

	return triples, nil
}

func (r *Resolver) populateCache(ctx context.Context, role string, triples []models.PermissionTriple) error {
	full, err := json.Marshal(triples)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, fullCacheKey(role), full, r.ttl); err != nil {
		return err
	}

	nameList := make([]string, 0, len(triples))
	for _, t := range triples {
		nameList = append(nameList, t.Name)
	}
	names, err := json.Marshal(nameList)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, namesCacheKey(role), names, r.ttl)
}
