package routes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/api/internal/rbac"
)

func TestTableRouteKeysUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, rt := range Table() {
		key := rbac.RouteKey(rt.Method, rt.Path)
		if prev, dup := seen[key]; dup {
			t.Errorf("routes %q and %q collide on key %q", prev, rt.Name, key)
		}
		seen[key] = rt.Name
	}
}

func TestTableNamesUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, rt := range Table() {
		if _, dup := seen[rt.Name]; dup {
			t.Errorf("duplicate route name %q", rt.Name)
		}
		seen[rt.Name] = struct{}{}
	}
}

func TestTableEntriesComplete(t *testing.T) {
	for _, rt := range Table() {
		assert.NotEmpty(t, rt.Name)
		assert.NotEmpty(t, rt.Method)
		assert.NotEmpty(t, rt.Label, "route %s needs a label for the permission catalog", rt.Name)
		assert.True(t, strings.HasPrefix(rt.Path, APIPrefix), "route %s outside the api prefix", rt.Name)
	}
}

func TestRulePublic(t *testing.T) {
	assert.True(t, Rule{}.Public(), "empty declaration defaults to public")
	assert.True(t, Rule{AuthTypes: []AuthType{AuthBearer, AuthNone}}.Public(),
		"None wins over any other declared strategy")
	assert.False(t, Rule{AuthTypes: []AuthType{AuthBearer}}.Public())
}

func TestProtectedRoutesDeclareCondition(t *testing.T) {
	for _, rt := range Table() {
		if rt.Rule.Public() {
			continue
		}
		assert.NotEmpty(t, rt.Rule.Condition, "route %s must declare how strategies combine", rt.Name)
	}
}

func TestDeclaredMatchesTable(t *testing.T) {
	table := Table()
	decl := Declared()
	assert.Len(t, decl, len(table))
	for i, rt := range table {
		assert.Equal(t, rt.Method, decl[i].Method)
		assert.Equal(t, rt.Path, decl[i].Path)
		assert.Equal(t, rt.Label, decl[i].Label)
	}
}
