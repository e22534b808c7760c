package client

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
)

// RouteTable maps protected path prefixes to the role they require. Longer
// prefixes win, so "/admin/sims" can require something different from
// "/admin". Paths with no matching prefix are unprotected.
type RouteTable struct {
	prefixes []string
	roles    map[string]Role
}

// NewRouteTable builds a table from prefix → required role.
func NewRouteTable(routes map[string]Role) *RouteTable {
	table := &RouteTable{roles: make(map[string]Role, len(routes))}
	for prefix, role := range routes {
		table.prefixes = append(table.prefixes, prefix)
		table.roles[prefix] = role
	}
	sort.Slice(table.prefixes, func(i, j int) bool {
		return len(table.prefixes[i]) > len(table.prefixes[j])
	})
	return table
}

// DefaultRouteTable matches the portal's views.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(map[string]Role{
		"/admin": RoleAdmin,
		"/users": RoleUser,
	})
}

// RequiredRole returns the role a path requires, and whether it is protected.
func (t *RouteTable) RequiredRole(path string) (Role, bool) {
	for _, prefix := range t.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return t.roles[prefix], true
		}
	}
	return "", false
}

// Decision is the terminal outcome of one guarded navigation.
type Decision struct {
	// Authorized means the protected content may be shown.
	Authorized bool
	// RedirectTo is set when not authorized: the login path, or the
	// subject's own home path on a role mismatch.
	RedirectTo string
	// Superseded means a newer navigation started while this one was
	// verifying; the result must be discarded, not acted on.
	Superseded bool
}

// RouteGuard confirms, per navigation, that the session is valid and
// authorized for the target path. Each navigation runs the state machine
// fresh; a prior verification never authorizes a new path.
type RouteGuard struct {
	client  *Client
	session SessionStore
	routes  *RouteTable
	nav     atomic.Uint64
}

// NewRouteGuard builds a guard over the client's session.
func NewRouteGuard(c *Client, routes *RouteTable) *RouteGuard {
	if routes == nil {
		routes = DefaultRouteTable()
	}
	return &RouteGuard{client: c, session: c.Session(), routes: routes}
}

// Authorize decides whether the navigation to path may proceed. The server
// round trip is the only suspend point; cancel ctx when the user navigates
// away. A navigation that is superseded by a newer Authorize call reports
// Superseded instead of applying its stale result.
func (g *RouteGuard) Authorize(ctx context.Context, path string) Decision {
	nav := g.nav.Add(1)

	required, protected := g.routes.RequiredRole(path)
	if !protected {
		return Decision{Authorized: true}
	}

	// No token, no network call: straight to login. The clear keeps any
	// half-stale derived fields from lingering.
	if !g.session.IsAuthenticated() {
		_ = g.session.Clear()
		return Decision{RedirectTo: LoginPath}
	}

	user, err := g.client.Verify(ctx)

	if g.nav.Load() != nav {
		return Decision{Superseded: true}
	}

	if err != nil {
		_ = g.session.Clear()
		return Decision{RedirectTo: LoginPath}
	}

	if user.Rol != required {
		// The subject is valid, just in the wrong place. Send them home
		// without tearing the session down.
		return Decision{RedirectTo: user.Rol.HomePath()}
	}

	return Decision{Authorized: true}
}
