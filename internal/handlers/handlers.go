package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/api/internal/config"
	"storefront/api/internal/middleware"
	"storefront/api/internal/repository"
	"storefront/api/internal/routes"
	"storefront/api/internal/service"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	db    *pgxpool.Pool
	cache *redis.Client

	authService       *service.AuthService
	roleService       *service.RoleService
	permissionService *service.PermissionService

	users      *repository.UserRepository
	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	carts      *repository.CartRepository
	wishlists  *repository.WishlistRepository
	orders     *repository.OrderRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)

	return HandlerSet{
		log:               log,
		cfg:               cfg,
		db:                db,
		cache:             cache,
		authService:       service.NewAuthService(userRepo, roleRepo, tokenRepo, deviceRepo, cfg, log),
		roleService:       service.NewRoleService(roleRepo, userRepo, log),
		permissionService: service.NewPermissionService(permissionRepo, log),
		users:             userRepo,
		products:          repository.NewProductRepository(db),
		categories:        repository.NewCategoryRepository(db),
		carts:             repository.NewCartRepository(db),
		wishlists:         repository.NewWishlistRepository(db),
		orders:            repository.NewOrderRepository(db),
	}
}

// Mount walks the declared route table and registers each route with
// its authentication chain and authorization guard. A table entry
// without a handler is a programming error caught at startup.
func (h HandlerSet) Mount(engine *gin.Engine, authn *middleware.Authenticator, guard *middleware.Guard) {
	engine.GET("/api/healthz", h.Health)

	dispatch := h.dispatch()
	for _, rt := range routes.Table() {
		handler, ok := dispatch[rt.Name]
		if !ok {
			h.log.Fatal().Str("route", rt.Name).Msg("route has no handler")
		}
		engine.Handle(rt.Method, rt.Path, authn.Middleware(rt.Rule), guard.Middleware(rt.Rule), handler)
	}
}

func (h HandlerSet) dispatch() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"auth.register":       h.RegisterUser,
		"auth.login":          h.Login,
		"auth.refresh":        h.Refresh,
		"auth.logout":         h.Logout,
		"auth.profile.get":    h.Profile,
		"auth.profile.update": h.UpdateProfile,
		"auth.users.list":     h.ListUsers,
		"auth.users.lock":     h.LockUser,
		"auth.users.unlock":   h.UnlockUser,

		"role.create":             h.CreateRole,
		"role.permissions.assign": h.AssignPermissionsToRole,
		"role.users.assign":       h.AssignRoleToUser,
		"role.list":               h.ListRoles,
		"role.get":                h.GetRole,
		"role.update":             h.UpdateRole,
		"role.delete":             h.DeleteRole,
		"role.restore":            h.RestoreRole,

		"permission.create":       h.CreatePermission,
		"permission.update":       h.UpdatePermission,
		"permission.delete":       h.DeletePermission,
		"permission.roles.assign": h.AssignRolesToPermission,
		"permission.pagination":   h.ListPermissions,
		"permission.get":          h.GetPermission,
		"permission.list":         h.ListPermissions,

		"product.create":     h.CreateProduct,
		"product.update":     h.UpdateProduct,
		"product.delete":     h.DeleteProduct,
		"product.pagination": h.ListProducts,
		"product.get":        h.GetProduct,
		"product.list":       h.ListProducts,

		"category.create":     h.CreateCategory,
		"category.update":     h.UpdateCategory,
		"category.delete":     h.DeleteCategory,
		"category.pagination": h.ListCategories,
		"category.get":        h.GetCategory,
		"category.list":       h.ListCategories,

		"cart.add":        h.AddCartItem,
		"cart.update":     h.UpdateCartItem,
		"cart.remove":     h.RemoveCartItem,
		"cart.clear":      h.ClearCart,
		"cart.pagination": h.ListCart,

		"wishlist.toggle": h.ToggleWishlist,
		"wishlist.list":   h.ListWishlist,

		"order.checkout":   h.Checkout,
		"order.pagination": h.ListOrders,
		"order.get":        h.GetOrder,
		"order.cancel":     h.CancelOrder,
	}
}

// respondError maps service and repository sentinels to HTTP statuses
// without leaking storage detail on unexpected failures.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRoleNotFound),
		errors.Is(err, repository.ErrPermissionNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrRoleExists),
		errors.Is(err, repository.ErrPermissionExists),
		errors.Is(err, repository.ErrProductExists),
		errors.Is(err, repository.ErrCategoryExists),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotActive),
		errors.Is(err, service.ErrUserLocked),
		errors.Is(err, service.ErrAdminRoleImmutable),
		errors.Is(err, service.ErrSelfRoleChange):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrEmptyCart),
		errors.Is(err, repository.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
