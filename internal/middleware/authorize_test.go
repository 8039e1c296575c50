package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"storefront/api/internal/rbac"
	"storefront/api/internal/routes"
	"storefront/api/internal/security"
)

type staticResolver struct {
	sets map[string]rbac.Set
	err  error
}

func (r staticResolver) ResolvePermissions(_ context.Context, roleName string) (rbac.Set, error) {
	if r.err != nil {
		return nil, r.err
	}
	set, ok := r.sets[roleName]
	if !ok {
		return rbac.Set{}, nil
	}
	return set, nil
}

func permSet(keys ...string) rbac.Set {
	set := make(rbac.Set)
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// guardRouter registers the handler at the given template with the
// guard in front, pre-attaching the identity as the authentication
// chain would.
func guardRouter(t *testing.T, resolver PermissionResolver, rule routes.Rule, method, template string, identity *security.Identity) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	guard := NewGuard(resolver, "*", zerolog.Nop())
	engine := gin.New()

	attach := func(c *gin.Context) {
		if identity != nil {
			c.Set(identityKey, *identity)
		}
		c.Next()
	}
	engine.Handle(method, template, attach, guard.Middleware(rule), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func bearerRule() routes.Rule {
	return routes.Rule{AuthTypes: []routes.AuthType{routes.AuthBearer}, Condition: routes.ConditionAND}
}

func TestGuardPublicRouteSkipsChecks(t *testing.T) {
	engine := guardRouter(t, staticResolver{}, routes.Rule{}, http.MethodGet, "/open", nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardMissingIdentityIsForbidden(t *testing.T) {
	engine := guardRouter(t, staticResolver{}, bearerRule(), http.MethodGet, "/secure", nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardWildcardGrantsEverything(t *testing.T) {
	resolver := staticResolver{sets: map[string]rbac.Set{"ADMIN": permSet("*")}}
	id := security.Identity{UserID: "u1", RoleName: "ADMIN"}
	engine := guardRouter(t, resolver, bearerRule(), http.MethodDelete, "/api/v1/role/:roleId", &id)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/role/abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardRouteKeyMatchUsesMatchedTemplate(t *testing.T) {
	// The grant names the route template; the concrete request carries
	// a real id. Matching must happen on the template.
	resolver := staticResolver{sets: map[string]rbac.Set{
		"CLIENT": permSet("delete /api/v1/order/:orderid"),
	}}
	id := security.Identity{UserID: "u1", RoleName: "CLIENT"}
	engine := guardRouter(t, resolver, bearerRule(), http.MethodDelete, "/api/v1/order/:orderId", &id)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/order/ord_12345", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardDeniesWithoutMatchingRouteKey(t *testing.T) {
	resolver := staticResolver{sets: map[string]rbac.Set{
		"CLIENT": permSet("get /api/v1/product"),
	}}
	id := security.Identity{UserID: "u1", RoleName: "CLIENT"}
	engine := guardRouter(t, resolver, bearerRule(), http.MethodDelete, "/api/v1/order/:orderId", &id)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/order/ord_12345", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardDeclaredPermissionsAllMode(t *testing.T) {
	rule := bearerRule()
	rule.Permissions = []string{"reports.read", "reports.export"}
	rule.PermMode = routes.PermAll

	id := security.Identity{UserID: "u1", RoleName: "CLIENT"}

	partial := staticResolver{sets: map[string]rbac.Set{"CLIENT": permSet("reports.read")}}
	engine := guardRouter(t, partial, rule, http.MethodGet, "/reports", &id)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code, "ALL requires every declared code")

	full := staticResolver{sets: map[string]rbac.Set{"CLIENT": permSet("reports.read", "reports.export")}}
	engine = guardRouter(t, full, rule, http.MethodGet, "/reports", &id)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardDeclaredPermissionsAnyMode(t *testing.T) {
	rule := bearerRule()
	rule.Permissions = []string{"reports.read", "reports.export"}
	rule.PermMode = routes.PermAny

	id := security.Identity{UserID: "u1", RoleName: "CLIENT"}
	resolver := staticResolver{sets: map[string]rbac.Set{"CLIENT": permSet("reports.read")}}
	engine := guardRouter(t, resolver, rule, http.MethodGet, "/reports", &id)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardResolverFailureIsServerError(t *testing.T) {
	resolver := staticResolver{err: errors.New("redis down")}
	id := security.Identity{UserID: "u1", RoleName: "CLIENT"}
	engine := guardRouter(t, resolver, bearerRule(), http.MethodGet, "/secure", &id)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code,
		"infrastructure faults must not look like permission denials")
}
