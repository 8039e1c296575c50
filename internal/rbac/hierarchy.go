package rbac

import "strings"

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// inheritance is the static role inheritance table. Roles and their
// parents are fixed at build time; changing the hierarchy is a
// redeploy, not a migration. Keeping the table out of the database
// avoids persisting (and having to traverse) a potentially cyclic
// graph.
var inheritance = map[string][]string{
	RoleAdmin:  {RoleClient},
	RoleClient: {},
}

// CanonicalRole folds a role name to its canonical form.
func CanonicalRole(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// KnownRole reports whether the role is present in the static table.
func KnownRole(name string) bool {
	_, ok := inheritance[CanonicalRole(name)]
	return ok
}

// ExpandRoles returns the closure of the given roles plus everything
// they transitively inherit. Unknown names are kept in the closure
// (they simply resolve to no permissions later). The visited set makes
// expansion safe even if the table were ever edited into a cycle.
func ExpandRoles(names ...string) []string {
	var closure []string
	visited := make(map[string]struct{})

	var visit func(name string)
	visit = func(name string) {
		canonical := CanonicalRole(name)
		if canonical == "" {
			return
		}
		if _, seen := visited[canonical]; seen {
			return
		}
		visited[canonical] = struct{}{}
		closure = append(closure, canonical)
		for _, parent := range inheritance[canonical] {
			visit(parent)
		}
	}

	for _, name := range names {
		visit(name)
	}
	return closure
}
