package rbac

import (
	"regexp"
	"strings"
)

var slashRuns = regexp.MustCompile(`/+`)

// Normalize canonicalizes a path template or permission code for
// comparison: consecutive separators collapse to one, a trailing
// separator is stripped, and the whole string is lower-cased (which
// also folds `:UserId` style placeholders to `:userid`).
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = slashRuns.ReplaceAllString(s, "/")
	s = strings.TrimSuffix(s, "/")
	return strings.ToLower(s)
}

// RouteKey builds the canonical "method /path" key under which a route
// is matched against the permission catalog. Callers must pass the
// matched route template, never a concrete request path.
func RouteKey(method string, path string) string {
	return strings.TrimSpace(Normalize(method) + " " + Normalize(path))
}
