// internal/app/system/guard/guard.go

// Package guard decides whether the current session may enter a view. The
// decision is a pure function of authentication state, the derived role
// flags, and the view's requirement; it performs no I/O and issues no
// redirects itself. Filtering elsewhere in the client is advisory display
// convenience; this package plus the server are the actual gatekeepers the
// user sees.
package guard

import (
	"net/url"

	"github.com/sila-platform/siladesk/internal/app/system/session"
)

// Decision is the outcome of a route check.
type Decision int

const (
	// Allow lets the view render.
	Allow Decision = iota
	// RedirectToLogin sends an unauthenticated user to the login view,
	// preserving where they were headed.
	RedirectToLogin
	// RedirectHome sends an authenticated but unqualified user home.
	RedirectHome
)

// String returns a readable form for logs.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Requirement describes what a view demands of the session. The zero value
// is a public view. Setting either role flag implies RequireAuth.
type Requirement struct {
	RequireAuth       bool
	AllowMinistry     bool
	AllowCharityAdmin bool
}

// roleGated reports whether the requirement names specific roles.
func (r Requirement) roleGated() bool {
	return r.AllowMinistry || r.AllowCharityAdmin
}

// Decide evaluates a requirement against the session state.
//
// Unauthenticated + protected -> RedirectToLogin.
// Authenticated + role mismatch on a role-gated view -> RedirectHome.
// Everything else -> Allow.
func Decide(authenticated bool, roles session.Roles, req Requirement) Decision {
	if !req.RequireAuth && !req.roleGated() {
		return Allow
	}
	if !authenticated {
		return RedirectToLogin
	}
	if req.roleGated() {
		allowed := (req.AllowMinistry && roles.IsMinistry) ||
			(req.AllowCharityAdmin && roles.IsCharityAdmin)
		if !allowed {
			return RedirectHome
		}
	}
	return Allow
}

// LoginRedirect builds the login path carrying the originally requested
// location, so the login view can best-effort return the user afterwards.
func LoginRedirect(target string) string {
	if target == "" {
		return "/login"
	}
	return "/login?return=" + url.QueryEscape(target)
}
