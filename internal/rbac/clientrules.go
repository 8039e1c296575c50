package rbac

import (
	"net/http"
	"regexp"
)

type allowRule struct {
	methods []string
	pattern *regexp.Regexp
}

func (r allowRule) matches(method string, path string) bool {
	for _, m := range r.methods {
		if m == method {
			return r.pattern.MatchString(path)
		}
	}
	return false
}

// clientAllowList is the static set of self-service routes granted to
// the CLIENT role on every sync run. Everything else stays
// admin-only until an administrator grants it explicitly.
var clientAllowList = []allowRule{
	// Catalog browsing is read-only.
	{[]string{http.MethodGet}, regexp.MustCompile(`(?i)/product(/|$)`)},
	{[]string{http.MethodGet}, regexp.MustCompile(`(?i)/category(/|$)`)},

	// Cart
	{[]string{http.MethodGet}, regexp.MustCompile(`(?i)/cart/pagination$`)},
	{[]string{http.MethodPost}, regexp.MustCompile(`(?i)/cart$`)},
	{[]string{http.MethodPatch}, regexp.MustCompile(`(?i)/cart/:cartitemid$`)},
	{[]string{http.MethodDelete}, regexp.MustCompile(`(?i)/cart(/:cartitemid)?$`)},

	// Wishlist
	{[]string{http.MethodGet}, regexp.MustCompile(`(?i)/wishlist(/|$)`)},
	{[]string{http.MethodPost}, regexp.MustCompile(`(?i)/wishlist/:productid/toggle$`)},

	// Orders
	{[]string{http.MethodGet}, regexp.MustCompile(`(?i)/order/pagination$`)},
	{[]string{http.MethodGet}, regexp.MustCompile(`(?i)/order/:orderid$`)},
	{[]string{http.MethodPost}, regexp.MustCompile(`(?i)/order/checkout-from-cart$`)},
	{[]string{http.MethodDelete}, regexp.MustCompile(`(?i)/order/:orderid$`)},

	// Account self-service
	{[]string{http.MethodGet, http.MethodPatch}, regexp.MustCompile(`(?i)/auth/profile$`)},
	{[]string{http.MethodPost}, regexp.MustCompile(`(?i)/auth/logout$`)},
}

// ClientAllowed reports whether a permission belongs to the CLIENT
// baseline grant.
func ClientAllowed(method string, path string) bool {
	for _, rule := range clientAllowList {
		if rule.matches(method, path) {
			return true
		}
	}
	return false
}
