// Package router defines the console's destinations and the guard that gates
// every navigation attempt against the session store.
package router

import "strings"

const (
	// LoginPath is where unauthenticated navigation is redirected.
	LoginPath = "/login"
	// DefaultPath is the landing route for authenticated users, and where
	// under-privileged navigation is redirected.
	DefaultPath = "/directories"
)

// Route is one destination of the console with its authorization metadata.
// Default (no flags): a session is required, any account type.
type Route struct {
	Name               string
	Pattern            string
	Public             bool
	RequiresSuperadmin bool
}

var table = []Route{
	{Name: "login", Pattern: "/login", Public: true},
	{Name: "directories", Pattern: "/directories"},
	{Name: "users", Pattern: "/directories/:dirId/users"},
	{Name: "groups", Pattern: "/directories/:dirId/groups"},
	{Name: "audit", Pattern: "/directories/:dirId/audit"},
	{Name: "bulk", Pattern: "/directories/:dirId/bulk"},
	{Name: "reports", Pattern: "/directories/:dirId/reports"},
	{Name: "profiles", Pattern: "/directories/:dirId/profiles"},
	{Name: "schema", Pattern: "/directories/:dirId/schema"},
	{Name: "settings", Pattern: "/settings"},
	{Name: "superadmin", Pattern: "/superadmin", RequiresSuperadmin: true},
	{Name: "tenants", Pattern: "/superadmin/tenants", RequiresSuperadmin: true},
}

// Routes returns the route table.
func Routes() []Route {
	routes := make([]Route, len(table))
	copy(routes, table)
	return routes
}

// Match resolves a destination path against the route table. Pattern segments
// starting with ':' capture the corresponding path segment. Query strings are
// ignored for matching.
func Match(dest string) (*Route, map[string]string, bool) {
	path := dest
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := splitPath(path)

	for i := range table {
		route := &table[i]
		patternSegments := splitPath(route.Pattern)
		if len(patternSegments) != len(segments) {
			continue
		}

		params := map[string]string{}
		matched := true
		for j, ps := range patternSegments {
			if strings.HasPrefix(ps, ":") {
				params[ps[1:]] = segments[j]
				continue
			}
			if ps != segments[j] {
				matched = false
				break
			}
		}
		if matched {
			return route, params, true
		}
	}

	return nil, nil, false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
