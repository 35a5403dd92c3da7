// Package server is the operator console: a public entry page with the login
// form, and the guarded dashboard with its JSON resource routes.
package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/traveline-backoffice/auth"
	"github.com/jrsteele09/traveline-backoffice/dashboard"
	"github.com/jrsteele09/traveline-backoffice/guard"
	"github.com/jrsteele09/traveline-backoffice/internal/config"
	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	router    chi.Router
	routes    []string
	config    config.Config
	auth      *auth.Service
	dashboard *dashboard.Service
	guard     *guard.Guard
	binding   *consoleBinding
	compress  func(http.Handler) http.Handler
	templates map[string]*template.Template
}

func New(config config.Config, authService *auth.Service, dashboardService *dashboard.Service) (*Server, error) {
	s := &Server{
		env:       config.GetEnv(),
		router:    chi.NewRouter(),
		config:    config,
		auth:      authService,
		dashboard: dashboardService,
		guard:     guard.New(authService.Session(), session.RoleAdmin),
		templates: make(map[string]*template.Template),
		compress:  middleware.Compress(5),
	}

	for _, name := range []string{templateIndex, templateDashboard} {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to parse %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}

	s.binding = &consoleBinding{server: s}
	s.guard.Binding = s.binding

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) RegisterRoute(method, pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.Method(method, pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		logRoute(parts[0], parts[1])
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func logError(method, path, errMsg string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, Red+errMsg+ResetColor)
}
