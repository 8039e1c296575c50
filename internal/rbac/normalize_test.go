package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "/Product/:ProductId", "/product/:productid"},
		{"collapses separator runs", "/api//v1///product", "/api/v1/product"},
		{"strips trailing separator", "/product/", "/product"},
		{"trims whitespace", "  /product  ", "/product"},
		{"empty stays empty", "", ""},
		{"bare slash collapses away", "/", ""},
		{"already canonical", "/api/v1/order/:orderid", "/api/v1/order/:orderid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"/Product//:ID/",
		"GET /api/v1/cart",
		"  //a//B//  ",
		"/api/v1/order/:orderId",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalizing twice must equal normalizing once for %q", in)
	}
}

func TestRouteKey(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"method first, lowercased", "GET", "/api/v1/product/:productId", "get /api/v1/product/:productid"},
		{"delete with param", "DELETE", "/api/v1/order/:orderId", "delete /api/v1/order/:orderid"},
		{"messy path", "Post", "//api//v1//cart/", "post /api/v1/cart"},
		{"empty path leaves bare method", "GET", "", "get"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteKey(tt.method, tt.path))
		})
	}
}

func TestRouteKeyMatchesNormalizedName(t *testing.T) {
	// A stored permission name and a key built from its route parts
	// must land on the same canonical string.
	name := "GET /api/v1/Product/:ProductId"
	assert.Equal(t, Normalize(name), RouteKey("GET", "/api/v1/Product/:ProductId"))
}
