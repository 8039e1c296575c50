package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRole(t *testing.T) {
	assert.Equal(t, "ADMIN", CanonicalRole(" admin "))
	assert.Equal(t, "CLIENT", CanonicalRole("Client"))
	assert.Equal(t, "", CanonicalRole("   "))
}

func TestKnownRole(t *testing.T) {
	assert.True(t, KnownRole("ADMIN"))
	assert.True(t, KnownRole("client"))
	assert.False(t, KnownRole("AUDITOR"))
	assert.False(t, KnownRole(""))
}

func TestExpandRoles(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"admin inherits client", []string{"ADMIN"}, []string{"ADMIN", "CLIENT"}},
		{"client stands alone", []string{"CLIENT"}, []string{"CLIENT"}},
		{"case folded", []string{"admin"}, []string{"ADMIN", "CLIENT"}},
		{"unknown kept in closure", []string{"AUDITOR"}, []string{"AUDITOR"}},
		{"duplicates collapse", []string{"ADMIN", "CLIENT", "admin"}, []string{"ADMIN", "CLIENT"}},
		{"empty names dropped", []string{"", "  "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandRoles(tt.in...))
		})
	}
}

func TestExpandRolesContainsSelf(t *testing.T) {
	// The closure always contains the role itself first.
	for role := range inheritance {
		closure := ExpandRoles(role)
		assert.NotEmpty(t, closure)
		assert.Equal(t, role, closure[0])
	}
}
