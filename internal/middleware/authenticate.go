package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/api/internal/config"
	"storefront/api/internal/routes"
	"storefront/api/internal/security"
)

const (
	identityKey    = "current_identity"
	accessTokenKey = "access_token"
	apiKeyHeader   = "X-API-Key"
)

var (
	errMissingToken  = errors.New("missing_token")
	errInvalidToken  = errors.New("invalid_token")
	errMissingAPIKey = errors.New("missing_api_key")
	errInvalidAPIKey = errors.New("invalid_api_key")
)

// CurrentIdentity returns the identity attached by the authentication
// chain, if any.
func CurrentIdentity(c *gin.Context) (security.Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return security.Identity{}, false
	}
	id, ok := val.(security.Identity)
	return id, ok
}

type strategy func(c *gin.Context) (security.Identity, error)

// Authenticator builds per-route authentication middleware from the
// route's declared strategies. Credentials are verified here once;
// the authorization guard only reads the attached identity.
type Authenticator struct {
	cfg *config.AppConfig
	log zerolog.Logger
}

func NewAuthenticator(cfg *config.AppConfig, log zerolog.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, log: log}
}

func (a *Authenticator) Middleware(rule routes.Rule) gin.HandlerFunc {
	if rule.Public() {
		return func(c *gin.Context) { c.Next() }
	}

	strategies := make([]strategy, 0, len(rule.AuthTypes))
	for _, t := range rule.AuthTypes {
		switch t {
		case routes.AuthBearer:
			strategies = append(strategies, a.bearer)
		case routes.AuthAPIKey:
			strategies = append(strategies, a.apiKey)
		}
	}

	if rule.Condition == routes.ConditionOR {
		return func(c *gin.Context) {
			var lastErr error
			for _, try := range strategies {
				id, err := try(c)
				if err == nil {
					attachIdentity(c, id)
					c.Next()
					return
				}
				lastErr = err
			}
			abortUnauthorized(c, lastErr)
		}
	}

	// AND: every declared strategy must succeed.
	return func(c *gin.Context) {
		var attached bool
		for _, try := range strategies {
			id, err := try(c)
			if err != nil {
				abortUnauthorized(c, err)
				return
			}
			if !attached && id.RoleName != "" {
				attachIdentity(c, id)
				attached = true
			}
		}
		c.Next()
	}
}

func attachIdentity(c *gin.Context, id security.Identity) {
	if id.RoleName != "" {
		c.Set(identityKey, id)
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	code := "unauthorized"
	if err != nil {
		code = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
}

func (a *Authenticator) bearer(c *gin.Context) (security.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return security.Identity{}, errMissingToken
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := security.ParseAccessToken(tokenStr, a.cfg.Security.JWTAccessSecret)
	if err != nil {
		return security.Identity{}, errInvalidToken
	}

	c.Set(accessTokenKey, tokenStr)
	return claims.Identity(), nil
}

// apiKey authenticates machine callers. The resulting identity carries
// the configured service role so route authorization applies uniformly.
func (a *Authenticator) apiKey(c *gin.Context) (security.Identity, error) {
	presented := c.GetHeader(apiKeyHeader)
	if presented == "" {
		return security.Identity{}, errMissingAPIKey
	}
	if a.cfg.Security.APIKey == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(a.cfg.Security.APIKey)) != 1 {
		return security.Identity{}, errInvalidAPIKey
	}

	return security.Identity{
		UserID:   "api-key",
		RoleName: a.cfg.Security.APIKeyRole,
	}, nil
}
