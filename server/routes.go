package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.router.NotFound(ChainMiddleware(s.NotFoundHandler(), s.HTMLMiddleWare()...))
	s.router.MethodNotAllowed(ChainMiddleware(s.MethodNotAllowedHandler(), s.HTMLMiddleWare()...))

	// PUBLIC
	s.RegisterRoute(http.MethodGet, RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRoute(http.MethodPost, RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRoute(http.MethodGet, RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRoute(http.MethodPost, RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// SYSTEM
	s.RegisterRoute(http.MethodGet, RouteHealth, s.HealthHandler())
	s.RegisterRoute(http.MethodGet, RouteMetrics, promhttp.Handler().ServeHTTP)

	// DASHBOARD (the guard runs on every request, nothing is remembered between them)
	requireAdmin := s.guard.Middleware()
	s.RegisterRoute(http.MethodGet, RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(requireAdmin)...))
	s.RegisterRoute(http.MethodGet, RouteResources, ChainMiddleware(s.ResourceNamesHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodGet, RouteProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodGet, RouteResourceList, ChainMiddleware(s.ResourceListHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodPost, RouteResourceList, ChainMiddleware(s.ResourceCreateHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodPatch, RouteResourceList, ChainMiddleware(s.ResourceUpdateHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodGet, RouteResourceItem, ChainMiddleware(s.ResourceGetHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodDelete, RouteResourceItem, ChainMiddleware(s.ResourceDeleteHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodPost, RouteResourceApprove, ChainMiddleware(s.ResourceApproveHandler(), s.APIMiddleware(requireAdmin)...))
	s.RegisterRoute(http.MethodPost, RouteResourceReject, ChainMiddleware(s.ResourceRejectHandler(), s.APIMiddleware(requireAdmin)...))

	// OPTIONS preflight for the JSON routes
	s.RegisterRoute(http.MethodOptions, RouteDashboardAPI+"/*", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))

	s.RegisterRoute(http.MethodGet, RouteStatic, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := chiParam(r, "file")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
