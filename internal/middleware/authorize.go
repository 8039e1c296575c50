package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/api/internal/rbac"
	"storefront/api/internal/routes"
)

// PermissionResolver yields the effective permission set for a role.
type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, roleName string) (rbac.Set, error)
}

// Guard decides allow/deny per request from the identity attached by
// the authentication chain and the route's declared rule.
type Guard struct {
	resolver PermissionResolver
	wildcard string
	log      zerolog.Logger
}

func NewGuard(resolver PermissionResolver, wildcard string, log zerolog.Logger) *Guard {
	if wildcard == "" {
		wildcard = "*"
	}
	return &Guard{resolver: resolver, wildcard: wildcard, log: log}
}

func (g *Guard) Middleware(rule routes.Rule) gin.HandlerFunc {
	required := make([]string, 0, len(rule.Permissions))
	for _, p := range rule.Permissions {
		required = append(required, rbac.Normalize(p))
	}
	mode := rule.PermMode
	if mode == "" {
		mode = routes.PermAll
	}

	return func(c *gin.Context) {
		// Public declaration wins over everything, including any
		// permission codes declared on the same route.
		if rule.Public() {
			c.Next()
			return
		}

		identity, ok := CurrentIdentity(c)
		if !ok || identity.RoleName == "" {
			// Reaching a permission check without an identity is a
			// hard denial, never anonymous access.
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		effective, err := g.resolver.ResolvePermissions(c.Request.Context(), identity.RoleName)
		if err != nil {
			// Infrastructure faults must stay distinguishable from
			// legitimate denials.
			g.log.Error().Err(err).
				Str("role", identity.RoleName).
				Str("path", c.FullPath()).
				Msg("permission resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}

		if effective.Has(g.wildcard) {
			c.Next()
			return
		}

		if len(required) > 0 {
			if permitted(effective, required, mode) {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		// No declared codes: match the route key built from the
		// framework's matched template, never the raw request path.
		key := rbac.RouteKey(c.Request.Method, c.FullPath())
		if effective.Has(key) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

func permitted(effective rbac.Set, required []string, mode routes.PermissionMode) bool {
	if mode == routes.PermAny {
		for _, p := range required {
			if effective.Has(p) {
				return true
			}
		}
		return false
	}
	for _, p := range required {
		if !effective.Has(p) {
			return false
		}
	}
	return true
}
