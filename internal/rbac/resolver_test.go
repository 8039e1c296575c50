package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/api/internal/cache"
	"storefront/api/internal/models"
)

type fakeSource struct {
	grants map[string][]models.PermissionTriple
	calls  map[string]int
	err    error
}

func newFakeSource(grants map[string][]models.PermissionTriple) *fakeSource {
	return &fakeSource{grants: grants, calls: make(map[string]int)}
}

func (f *fakeSource) PermissionsByRoleName(_ context.Context, roleName string) ([]models.PermissionTriple, error) {
	f.calls[roleName]++
	if f.err != nil {
		return nil, f.err
	}
	return f.grants[roleName], nil
}

func TestResolvePermissionsUnionsInheritedRoles(t *testing.T) {
	source := newFakeSource(map[string][]models.PermissionTriple{
		RoleAdmin: {
			{Name: "POST /api/v1/role/create", Path: "/api/v1/role/create", Method: "POST"},
		},
		RoleClient: {
			{Name: "GET /api/v1/product", Path: "/api/v1/product", Method: "GET"},
		},
	})
	resolver := NewResolver(source, cache.NewMemoryStore(), time.Minute, zerolog.Nop())

	effective, err := resolver.ResolvePermissions(context.Background(), "ADMIN")
	require.NoError(t, err)

	// Own grant plus the inherited CLIENT grant, each reachable by
	// normalized name and by route key.
	assert.True(t, effective.Has("post /api/v1/role/create"))
	assert.True(t, effective.Has("get /api/v1/product"))
}

func TestResolvePermissionsUnknownRoleIsEmpty(t *testing.T) {
	source := newFakeSource(nil)
	resolver := NewResolver(source, cache.NewMemoryStore(), time.Minute, zerolog.Nop())

	effective, err := resolver.ResolvePermissions(context.Background(), "AUDITOR")
	require.NoError(t, err)
	assert.Empty(t, effective)
	assert.Empty(t, source.calls, "unknown roles never reach the store")
}

func TestResolvePermissionsServedFromCache(t *testing.T) {
	source := newFakeSource(map[string][]models.PermissionTriple{
		RoleClient: {
			{Name: "GET /api/v1/cart/pagination", Path: "/api/v1/cart/pagination", Method: "GET"},
		},
	})
	resolver := NewResolver(source, cache.NewMemoryStore(), time.Minute, zerolog.Nop())

	ctx := context.Background()
	_, err := resolver.ResolvePermissions(ctx, RoleClient)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls[RoleClient])

	effective, err := resolver.ResolvePermissions(ctx, RoleClient)
	require.NoError(t, err)
	assert.True(t, effective.Has("get /api/v1/cart/pagination"))
	assert.Equal(t, 1, source.calls[RoleClient], "second resolve must hit the cache")
}

func TestResolvePermissionsEmptyRoleDropsCacheEntries(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	// Stale entries from before the role was emptied.
	require.NoError(t, store.Set(ctx, "permissions_full_CLIENT", []byte(`[{"name":"x"}]`), time.Minute))
	require.NoError(t, store.Set(ctx, "permissions_names_CLIENT", []byte(`["x"]`), time.Minute))

	source := newFakeSource(map[string][]models.PermissionTriple{})
	resolver := NewResolver(source, store, time.Minute, zerolog.Nop())

	// The seeded full entry is served first; force a miss by deleting
	// it, as the TTL would, then resolve against the emptied role.
	require.NoError(t, store.Delete(ctx, "permissions_full_CLIENT"))

	effective, err := resolver.ResolvePermissions(ctx, RoleClient)
	require.NoError(t, err)
	assert.Empty(t, effective)

	_, hit, err := store.Get(ctx, "permissions_names_CLIENT")
	require.NoError(t, err)
	assert.False(t, hit, "companion names entry must be invalidated")
}

func TestResolvePermissionsPropagatesStoreErrors(t *testing.T) {
	source := newFakeSource(nil)
	source.err = errors.New("connection refused")
	resolver := NewResolver(source, cache.NewMemoryStore(), time.Minute, zerolog.Nop())

	_, err := resolver.ResolvePermissions(context.Background(), RoleClient)
	assert.Error(t, err, "infrastructure faults must not be masked as denials")
}

func TestResolvePermissionsRecomputesCorruptCacheEntry(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "permissions_full_CLIENT", []byte("not json"), time.Minute))

	source := newFakeSource(map[string][]models.PermissionTriple{
		RoleClient: {
			{Name: "GET /api/v1/wishlist", Path: "/api/v1/wishlist", Method: "GET"},
		},
	})
	resolver := NewResolver(source, store, time.Minute, zerolog.Nop())

	effective, err := resolver.ResolvePermissions(ctx, RoleClient)
	require.NoError(t, err)
	assert.True(t, effective.Has("get /api/v1/wishlist"))
	assert.Equal(t, 1, source.calls[RoleClient])
}
