package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/api/internal/models"
)

func declared(method, path, label string) DeclaredRoute {
	return DeclaredRoute{Method: method, Path: path, Label: label}
}

func stored(id, method, path, label string) models.Permission {
	return models.Permission{
		ID:          id,
		Name:        RouteKey(method, path),
		Description: label,
		Path:        path,
		Method:      method,
	}
}

func TestPlanSyncAddsNewRoutes(t *testing.T) {
	plan := planSync(nil, []DeclaredRoute{
		declared("POST", "/api/v1/cart", "Add Cart Item"),
		declared("GET", "/api/v1/product", "View Product List"),
	})

	assert.Len(t, plan.toAdd, 2)
	assert.Empty(t, plan.toUpdate)
	assert.Empty(t, plan.toDelete)
}

func TestPlanSyncIdempotent(t *testing.T) {
	routes := []DeclaredRoute{
		declared("POST", "/api/v1/cart", "Add Cart Item"),
		declared("GET", "/api/v1/order/:orderId", "View Order Detail"),
	}
	existing := []models.Permission{
		stored("p1", "POST", "/api/v1/cart", "Add Cart Item"),
		stored("p2", "GET", "/api/v1/order/:orderId", "View Order Detail"),
	}

	plan := planSync(existing, routes)
	assert.Empty(t, plan.toAdd)
	assert.Empty(t, plan.toUpdate)
	assert.Empty(t, plan.toDelete)
}

func TestPlanSyncRelabelsExistingRoute(t *testing.T) {
	// A label change on an unchanged route must update in place, not
	// delete and recreate, so role grants survive.
	existing := []models.Permission{
		stored("p1", "POST", "/api/v1/cart", "Create Cart"),
	}
	plan := planSync(existing, []DeclaredRoute{
		declared("POST", "/api/v1/cart", "Add Item"),
	})

	assert.Empty(t, plan.toAdd)
	assert.Empty(t, plan.toDelete)
	require.Len(t, plan.toUpdate, 1)
	assert.Equal(t, "p1", plan.toUpdate[0].ID)
	assert.Equal(t, "Add Item", plan.toUpdate[0].Description)
}

func TestPlanSyncRemovesVanishedRoutes(t *testing.T) {
	existing := []models.Permission{
		stored("p1", "POST", "/api/v1/cart", "Add Cart Item"),
		stored("p2", "POST", "/api/v1/coupon/apply", "Apply Coupon"),
	}
	plan := planSync(existing, []DeclaredRoute{
		declared("POST", "/api/v1/cart", "Add Cart Item"),
	})

	require.Len(t, plan.toDelete, 1)
	assert.Equal(t, "p2", plan.toDelete[0].ID)
}

func TestPlanSyncDeduplicatesLastOneWins(t *testing.T) {
	plan := planSync(nil, []DeclaredRoute{
		declared("POST", "/api/v1/cart", "First Label"),
		declared("POST", "/api/v1/cart", "Second Label"),
	})

	require.Len(t, plan.toAdd, 1)
	assert.Equal(t, "Second Label", plan.toAdd[0].Label)
}

func TestPlanSyncKeyInsensitiveToPathCase(t *testing.T) {
	// Param-name casing differences are cosmetic: the canonical key is
	// unchanged, so only the stored template text is refreshed.
	existing := []models.Permission{
		stored("p1", "GET", "/api/v1/order/:orderId", "View Order Detail"),
	}
	plan := planSync(existing, []DeclaredRoute{
		declared("GET", "/api/v1/order/:orderid", "View Order Detail"),
	})

	assert.Empty(t, plan.toAdd)
	assert.Empty(t, plan.toDelete)
	require.Len(t, plan.toUpdate, 1)
	assert.Equal(t, "/api/v1/order/:orderid", plan.toUpdate[0].Path)
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/api/v1/Product", cleanPath(" /api//v1/Product/ "))
	assert.Equal(t, "", cleanPath("/"))
}

func TestClientAllowed(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   bool
	}{
		{"browse products", "GET", "/api/v1/product", true},
		{"view product detail", "GET", "/api/v1/product/:productId", true},
		{"create product denied", "POST", "/api/v1/product/create", false},
		{"add to cart", "POST", "/api/v1/cart", true},
		{"update cart item", "PATCH", "/api/v1/cart/:cartItemId", true},
		{"clear cart", "DELETE", "/api/v1/cart", true},
		{"checkout", "POST", "/api/v1/order/checkout-from-cart", true},
		{"cancel order", "DELETE", "/api/v1/order/:orderId", true},
		{"toggle wishlist", "POST", "/api/v1/wishlist/:productId/toggle", true},
		{"own profile", "GET", "/api/v1/auth/profile", true},
		{"logout", "POST", "/api/v1/auth/logout", true},
		{"user list denied", "GET", "/api/v1/auth", false},
		{"role management denied", "POST", "/api/v1/role/create", false},
		{"permission management denied", "GET", "/api/v1/permission", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientAllowed(tt.method, tt.path))
		})
	}
}
