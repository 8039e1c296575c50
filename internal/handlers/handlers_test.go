package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/api/internal/routes"
)

func TestDispatchCoversRouteTable(t *testing.T) {
	var h HandlerSet
	dispatch := h.dispatch()

	for _, rt := range routes.Table() {
		_, ok := dispatch[rt.Name]
		assert.True(t, ok, "route %q has no handler", rt.Name)
	}
}
