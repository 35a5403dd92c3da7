package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/traveline-backoffice/api"
	"github.com/jrsteele09/traveline-backoffice/auth"
	"github.com/jrsteele09/traveline-backoffice/token"
	"github.com/rs/zerolog"
)

// PageData is shared by every console page.
type PageData struct {
	AppName    string
	BackendURL string
	Username   string
	Role       string

	// Index page
	SignedIn      bool
	Error         string
	LoginUsername string

	// Dashboard page
	Resources []string
	ExpiresAt time.Time
}

func (s *Server) pageData() PageData {
	return PageData{
		AppName:    s.config.GetAppName(),
		BackendURL: s.config.GetAPIBaseURL(),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, statusCode int, data PageData) {
	tmpl, ok := s.templates[name]
	if !ok {
		http.Error(w, "500 - Unknown page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(statusCode)
	if err := tmpl.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("template", name).Msg("Failed to render template")
	}
}

// IndexHandler renders the public entry route with the login form. It only
// reads the session; the guard is what clears it.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData()
		sess := s.auth.Session()
		if accessToken := sess.AccessToken(); accessToken != "" && token.IsValid(accessToken) && s.binding.Bound(r) {
			data.SignedIn = true
			if info, err := token.Inspect(accessToken); err == nil {
				data.Username = info.Username
			}
		}
		data.Error = r.URL.Query().Get("error")
		s.render(w, r, templateIndex, http.StatusOK, data)
	}
}

// LoginSubmissionHandler processes the login form. Credentials go to the
// backend as typed, empty fields included.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		creds := auth.Credentials{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}

		if _, err := s.auth.Login(r.Context(), creds); err != nil {
			status := statusFor(err)
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("username", creds.Username).Msg("Login failed")

			data := s.pageData()
			data.Error = loginErrorMessage(err)
			data.LoginUsername = creds.Username
			s.render(w, r, templateIndex, status, data)
			return
		}
		s.binding.bind(w, r)
		redirectSuccess(w, r, RouteDashboard)
	}
}

// loginErrorMessage prefers the backend's own message, which is what the
// operator needs to see ("Invalid credentials", "username should not be empty").
func loginErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		return "The Traveline backend is unreachable. Try again shortly."
	}
	return "Login failed: " + err.Error()
}

// LogoutHandler clears the stored session for the signed-in browser only.
// Anyone else just loses their stale cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.binding.Bound(r) && s.auth.Session().AccessToken() != "" {
			zerolog.Ctx(r.Context()).Warn().Msg("Logout: request is not bound to the stored session")
			s.SetConsoleCookie(w, r, "", -1)
			redirectSuccess(w, r, RouteIndex)
			return
		}
		if err := s.auth.Logout(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Logout: failed to clear stored session")
		}
		s.binding.Unbind(w, r)
		redirectSuccess(w, r, RouteIndex)
	}
}

// DashboardHandler renders the dashboard shell. The profile is fetched so
// the stored role follows the backend; a failed fetch clears the session and
// the next guarded request is sent back to the entry route.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData()
		data.Resources = s.dashboard.ResourceNames()

		sess := s.auth.Session()
		if info, err := token.Inspect(sess.AccessToken()); err == nil {
			data.Username = info.Username
			data.ExpiresAt = info.ExpiresAt
		}
		if profile, err := s.auth.Profile(r.Context()); err == nil {
			data.Username = profile.Username
		} else {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Dashboard: profile unavailable")
		}
		data.Role = sess.Role().String()
		if data.Username == "" {
			data.Username = "operator"
		}
		s.render(w, r, templateDashboard, http.StatusOK, data)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Status: http.StatusNotFound})
			return
		}
		http.Error(w, "404 - Page not found", http.StatusNotFound)
	}
}

func (s *Server) MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "405 - Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, RouteDashboardAPI) ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
