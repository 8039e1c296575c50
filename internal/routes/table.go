package routes

import (
	"net/http"

	"storefront/api/internal/rbac"
)

type AuthType string

const (
	AuthBearer AuthType = "Bearer"
	AuthAPIKey AuthType = "ApiKey"
	AuthNone   AuthType = "None"
)

type Condition string

const (
	ConditionAND Condition = "and"
	ConditionOR  Condition = "or"
)

type PermissionMode string

const (
	PermAll PermissionMode = "ALL"
	PermAny PermissionMode = "ANY"
)

// Rule is the per-route security declaration: which authentication
// strategies apply (and how they combine), and optionally which
// permission codes the caller must hold. With no explicit permission
// codes the authorization guard falls back to route-key matching.
type Rule struct {
	AuthTypes   []AuthType
	Condition   Condition
	Permissions []string
	PermMode    PermissionMode
}

// Public reports whether the route accepts unauthenticated access.
// An empty declaration defaults to public.
func (r Rule) Public() bool {
	if len(r.AuthTypes) == 0 {
		return true
	}
	for _, t := range r.AuthTypes {
		if t == AuthNone {
			return true
		}
	}
	return false
}

// Route is one declared endpoint. Name identifies the handler at
// registration time; Label is the human description stored in the
// permission catalog.
type Route struct {
	Name   string
	Method string
	Path   string
	Label  string
	Rule   Rule
}

const APIPrefix = "/api/v1"

func public() Rule {
	return Rule{AuthTypes: []AuthType{AuthNone}}
}

func bearer() Rule {
	return Rule{AuthTypes: []AuthType{AuthBearer}, Condition: ConditionAND}
}

// bearerOrAPIKey lets machine callers manage RBAC with the service
// API key while humans use access tokens.
func bearerOrAPIKey() Rule {
	return Rule{AuthTypes: []AuthType{AuthBearer, AuthAPIKey}, Condition: ConditionOR}
}

// Table returns the declared route table. It is the single source of
// truth for registration, per-request authorization, and the
// permission sync job; no runtime reflection is involved.
func Table() []Route {
	p := APIPrefix
	return []Route{
		// Auth
		{"auth.register", http.MethodPost, p + "/auth/register", "Register", public()},
		{"auth.login", http.MethodPost, p + "/auth/login", "Login", public()},
		{"auth.refresh", http.MethodPost, p + "/auth/refresh-token", "Refresh Token", public()},
		{"auth.logout", http.MethodPost, p + "/auth/logout", "Logout", bearer()},
		{"auth.profile.get", http.MethodGet, p + "/auth/profile", "View Profile", bearer()},
		{"auth.profile.update", http.MethodPatch, p + "/auth/profile", "Update Profile", bearer()},
		{"auth.users.list", http.MethodGet, p + "/auth", "View User List", bearer()},
		{"auth.users.lock", http.MethodPut, p + "/auth/:userId/lock", "Lock User", bearer()},
		{"auth.users.unlock", http.MethodPut, p + "/auth/:userId/unlock", "Unlock User", bearer()},

		// Role management
		{"role.create", http.MethodPost, p + "/role/create", "Create Role", bearerOrAPIKey()},
		{"role.permissions.assign", http.MethodPost, p + "/role/:roleId/permissions", "Assign Permissions To Role", bearerOrAPIKey()},
		{"role.users.assign", http.MethodPut, p + "/role/users/:userId/roles", "Assign Role To User", bearerOrAPIKey()},
		{"role.list", http.MethodGet, p + "/role", "View Role List", bearerOrAPIKey()},
		{"role.get", http.MethodGet, p + "/role/:roleId", "View Role Detail", bearerOrAPIKey()},
		{"role.update", http.MethodPatch, p + "/role/:roleId", "Update Role", bearerOrAPIKey()},
		{"role.delete", http.MethodDelete, p + "/role/:roleId", "Delete Role", bearerOrAPIKey()},
		{"role.restore", http.MethodPatch, p + "/role/:roleId/restore", "Restore Role", bearerOrAPIKey()},

		// Permission management
		{"permission.create", http.MethodPost, p + "/permission/create", "Create Permission", bearerOrAPIKey()},
		{"permission.update", http.MethodPatch, p + "/permission/:permissionId", "Update Permission", bearerOrAPIKey()},
		{"permission.delete", http.MethodDelete, p + "/permission/:permissionId", "Delete Permission", bearerOrAPIKey()},
		{"permission.roles.assign", http.MethodPost, p + "/permission/:permissionId/roles", "Assign Roles To Permission", bearerOrAPIKey()},
		{"permission.pagination", http.MethodGet, p + "/permission/pagination", "View Permission Page", bearerOrAPIKey()},
		{"permission.get", http.MethodGet, p + "/permission/:permissionId", "View Permission Detail", bearerOrAPIKey()},
		{"permission.list", http.MethodGet, p + "/permission", "View Permission List", bearerOrAPIKey()},

		// Product catalog
		{"product.create", http.MethodPost, p + "/product/create", "Create Product", bearer()},
		{"product.update", http.MethodPatch, p + "/product/:productId", "Update Product", bearer()},
		{"product.delete", http.MethodDelete, p + "/product/:productId", "Delete Product", bearer()},
		{"product.pagination", http.MethodGet, p + "/product/pagination", "View Product Page", public()},
		{"product.get", http.MethodGet, p + "/product/:productId", "View Product Detail", public()},
		{"product.list", http.MethodGet, p + "/product", "View Product List", public()},

		// Categories
		{"category.create", http.MethodPost, p + "/category/create", "Create Category", bearer()},
		{"category.update", http.MethodPatch, p + "/category/:categoryId", "Update Category", bearer()},
		{"category.delete", http.MethodDelete, p + "/category/:categoryId", "Delete Category", bearer()},
		{"category.pagination", http.MethodGet, p + "/category/pagination", "View Category Page", public()},
		{"category.get", http.MethodGet, p + "/category/:categoryId", "View Category Detail", public()},
		{"category.list", http.MethodGet, p + "/category", "View Category List", public()},

		// Cart
		{"cart.add", http.MethodPost, p + "/cart", "Add Cart Item", bearer()},
		{"cart.update", http.MethodPatch, p + "/cart/:cartItemId", "Update Cart Item", bearer()},
		{"cart.remove", http.MethodDelete, p + "/cart/:cartItemId", "Remove Cart Item", bearer()},
		{"cart.clear", http.MethodDelete, p + "/cart", "Clear Cart", bearer()},
		{"cart.pagination", http.MethodGet, p + "/cart/pagination", "View Cart Page", bearer()},

		// Wishlist
		{"wishlist.toggle", http.MethodPost, p + "/wishlist/:productId/toggle", "Toggle Wishlist Item", bearer()},
		{"wishlist.list", http.MethodGet, p + "/wishlist", "View Wishlist", bearer()},

		// Orders
		{"order.checkout", http.MethodPost, p + "/order/checkout-from-cart", "Checkout From Cart", bearer()},
		{"order.pagination", http.MethodGet, p + "/order/pagination", "View Order Page", bearer()},
		{"order.get", http.MethodGet, p + "/order/:orderId", "View Order Detail", bearer()},
		{"order.cancel", http.MethodDelete, p + "/order/:orderId", "Cancel Order", bearer()},
	}
}

// Declared converts the table to the sync job's input form.
func Declared() []rbac.DeclaredRoute {
	table := Table()
	out := make([]rbac.DeclaredRoute, 0, len(table))
	for _, rt := range table {
		out = append(out, rbac.DeclaredRoute{Method: rt.Method, Path: rt.Path, Label: rt.Label})
	}
	return out
}
