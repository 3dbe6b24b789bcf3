package guard_test

import (
	"testing"

	"github.com/sila-platform/siladesk/internal/app/system/guard"
	"github.com/sila-platform/siladesk/internal/app/system/session"
)

func TestDecide(t *testing.T) {
	ministry := session.Roles{IsMinistry: true}
	charity := session.Roles{IsCharityAdmin: true}
	both := session.Roles{IsMinistry: true, IsCharityAdmin: true}
	none := session.Roles{}

	authOnly := guard.Requirement{RequireAuth: true}
	dashboards := guard.Requirement{RequireAuth: true, AllowMinistry: true, AllowCharityAdmin: true}
	charityOnly := guard.Requirement{RequireAuth: true, AllowCharityAdmin: true}

	tests := []struct {
		name  string
		authed bool
		roles session.Roles
		req   guard.Requirement
		want  guard.Decision
	}{
		{"public view, anonymous", false, none, guard.Requirement{}, guard.Allow},
		{"public view, authenticated", true, ministry, guard.Requirement{}, guard.Allow},

		{"protected view, anonymous", false, none, authOnly, guard.RedirectToLogin},
		{"protected view, any authenticated user", true, none, authOnly, guard.Allow},

		{"role-gated view, anonymous", false, ministry, dashboards, guard.RedirectToLogin},
		{"dashboard, ministry", true, ministry, dashboards, guard.Allow},
		{"dashboard, charity admin", true, charity, dashboards, guard.Allow},
		{"dashboard, plain user", true, none, dashboards, guard.RedirectHome},

		{"charity-only view, ministry user", true, ministry, charityOnly, guard.RedirectHome},
		{"charity-only view, charity admin", true, charity, charityOnly, guard.Allow},
		{"charity-only view, both roles", true, both, charityOnly, guard.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Decide(tt.authed, tt.roles, tt.req)
			if got != tt.want {
				t.Errorf("Decide(%v, %+v, %+v) = %v, want %v",
					tt.authed, tt.roles, tt.req, got, tt.want)
			}
		})
	}
}

func TestFor_RouteTable(t *testing.T) {
	tests := []struct {
		path       string
		known      bool
		roleGated  bool
		needsLogin bool
	}{
		{guard.RouteHome, true, false, false},
		{guard.RoutePrograms, true, false, false},
		{guard.RouteEvents, true, false, false},
		{guard.RouteProfile, true, false, true},
		{guard.RouteDashboard, true, true, true},
		{guard.RouteBeneficiaries, true, true, true},
		{"/nope", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, ok := guard.For(tt.path)
			if ok != tt.known {
				t.Fatalf("For(%q) known = %v, want %v", tt.path, ok, tt.known)
			}
			if !tt.known {
				return
			}
			if gated := req.AllowMinistry || req.AllowCharityAdmin; gated != tt.roleGated {
				t.Errorf("role gated = %v, want %v", gated, tt.roleGated)
			}
			if req.RequireAuth != tt.needsLogin {
				t.Errorf("RequireAuth = %v, want %v", req.RequireAuth, tt.needsLogin)
			}
		})
	}
}

func TestLoginRedirect_PreservesTarget(t *testing.T) {
	if got := guard.LoginRedirect(""); got != "/login" {
		t.Errorf("empty target: %q", got)
	}
	if got := guard.LoginRedirect("/beneficiaries"); got != "/login?return=%2Fbeneficiaries" {
		t.Errorf("got %q", got)
	}
}
