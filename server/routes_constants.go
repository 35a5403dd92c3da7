package server

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	// Public Routes
	RouteIndex  = "/"
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	// System Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"

	// Dashboard Routes (guarded, admin only)
	RouteDashboard       = "/dashboard"
	RouteDashboardAPI    = "/dashboard/api"
	RouteResources       = RouteDashboardAPI + "/resources"
	RouteProfile         = RouteDashboardAPI + "/profile"
	RouteResourceList    = RouteDashboardAPI + "/{resource}"
	RouteResourceItem    = RouteDashboardAPI + "/{resource}/{id}"
	RouteResourceApprove = RouteResourceItem + "/approve"
	RouteResourceReject  = RouteResourceItem + "/reject"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/{file}"
)
