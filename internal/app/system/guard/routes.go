// internal/app/system/guard/routes.go
package guard

// Route paths the client knows about.
const (
	RouteHome          = "/"
	RouteAbout         = "/about"
	RoutePrograms      = "/programs"
	RouteEvents        = "/events"
	RouteLogin         = "/login"
	RouteRegister      = "/register"
	RouteProfile       = "/profile"
	RouteDashboard     = "/dashboard"
	RouteBeneficiaries = "/beneficiaries"
)

// routes maps each known path to its requirement. Programs and events are
// public browsing views; the dashboard admits either administrative role;
// beneficiary management is charity-only; the profile just needs a login.
var routes = map[string]Requirement{
	RouteHome:          {},
	RouteAbout:         {},
	RoutePrograms:      {},
	RouteEvents:        {},
	RouteLogin:         {},
	RouteRegister:      {},
	RouteProfile:       {RequireAuth: true},
	RouteDashboard:     {RequireAuth: true, AllowMinistry: true, AllowCharityAdmin: true},
	RouteBeneficiaries: {RequireAuth: true, AllowCharityAdmin: true},
}

// For returns the requirement for path and whether the path is known.
// Unknown paths are the caller's problem (the original client navigates
// them home).
func For(path string) (Requirement, bool) {
	req, ok := routes[path]
	return req, ok
}
