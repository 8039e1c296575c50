package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/api/internal/config"
	"storefront/api/internal/routes"
	"storefront/api/internal/security"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret: "access-secret",
			APIKey:          "service-key",
			APIKeyRole:      "ADMIN",
		},
	}
}

func authRouter(t *testing.T, rule routes.Rule) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authn := NewAuthenticator(testConfig(), zerolog.Nop())
	engine := gin.New()
	engine.GET("/probe", authn.Middleware(rule), func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"role": id.RoleName})
	})
	return engine
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	token, err := security.SignAccessToken("access-secret", security.Identity{
		UserID:   "u1",
		RoleName: role,
	}, time.Minute)
	require.NoError(t, err)
	return token
}

func TestAuthenticatePublicRoutePassesWithoutCredentials(t *testing.T) {
	engine := authRouter(t, routes.Rule{AuthTypes: []routes.AuthType{routes.AuthNone}})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateBearerAttachesIdentity(t *testing.T) {
	engine := authRouter(t, routes.Rule{
		AuthTypes: []routes.AuthType{routes.AuthBearer},
		Condition: routes.ConditionAND,
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "CLIENT"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CLIENT")
}

func TestAuthenticateBearerRejectsMissingAndInvalid(t *testing.T) {
	engine := authRouter(t, routes.Rule{
		AuthTypes: []routes.AuthType{routes.AuthBearer},
		Condition: routes.ConditionAND,
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestAuthenticateOrFirstSuccessWins(t *testing.T) {
	engine := authRouter(t, routes.Rule{
		AuthTypes: []routes.AuthType{routes.AuthBearer, routes.AuthAPIKey},
		Condition: routes.ConditionOR,
	})

	// Bearer fails, the api key succeeds, the request proceeds with
	// the service identity.
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.Header.Set("X-API-Key", "service-key")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ADMIN")
}

func TestAuthenticateOrPropagatesLastFailure(t *testing.T) {
	engine := authRouter(t, routes.Rule{
		AuthTypes: []routes.AuthType{routes.AuthBearer, routes.AuthAPIKey},
		Condition: routes.ConditionOR,
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-API-Key", "wrong-key")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_api_key")
}

func TestAuthenticateAndRequiresEveryStrategy(t *testing.T) {
	engine := authRouter(t, routes.Rule{
		AuthTypes: []routes.AuthType{routes.AuthBearer, routes.AuthAPIKey},
		Condition: routes.ConditionAND,
	})

	// Valid bearer alone is not enough.
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "CLIENT"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Both credentials present: passes, first identity wins.
	req.Header.Set("X-API-Key", "service-key")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CLIENT")
}

func TestAuthenticateAPIKeyDisabledWhenUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Security.APIKey = ""

	authn := NewAuthenticator(cfg, zerolog.Nop())
	engine := gin.New()
	engine.GET("/probe", authn.Middleware(routes.Rule{
		AuthTypes: []routes.AuthType{routes.AuthAPIKey},
		Condition: routes.ConditionAND,
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
