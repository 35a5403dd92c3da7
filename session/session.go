// Package session holds the operator's access token, refresh token and role.
//
// A Session is created once per process with New, loaded with Init and passed
// explicitly to everything that needs it. Every write goes straight through to
// the Repo so the session survives restarts.
package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

const (
	KeyAccessToken  = "traveline_access_token"
	KeyRefreshToken = "traveline_refresh_token"
	KeyRole         = "traveline_role"
)

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyRole}

type Session struct {
	repo      Repo
	namespace string

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	role         string
}

// New returns an empty session bound to repo. Call Init to load persisted values.
func New(repo Repo, namespace string) *Session {
	return &Session{repo: repo, namespace: namespace}
}

// Namespace reduces a backend base URL to its origin so that sessions for
// different backends never share keys.
func Namespace(baseURL string) string {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimRight(baseURL, "/"))
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// Init reads the persisted values once.
func (s *Session) Init(ctx context.Context) error {
	values, err := s.repo.Get(ctx, s.namespace, allKeys...)
	if err != nil {
		return fmt.Errorf("[Session Init] failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = values[KeyAccessToken]
	s.refreshToken = values[KeyRefreshToken]
	s.role = values[KeyRole]
	return nil
}

func (s *Session) Namespace() string {
	return s.namespace
}

func (s *Session) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, KeyAccessToken, token, &s.accessToken)
}

func (s *Session) SetRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, KeyRefreshToken, token, &s.refreshToken)
}

// SetRole stores role as given; reading it back filters unknown values.
func (s *Session) SetRole(ctx context.Context, role Role) error {
	return s.set(ctx, KeyRole, string(role), &s.role)
}

func (s *Session) set(ctx context.Context, key, value string, field *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, s.namespace, key, value); err != nil {
		return fmt.Errorf("[Session Set] failed to persist %s: %w", key, err)
	}
	*field = value
	return nil
}

// AccessToken returns the stored access token, or "" when there is none.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Role returns the stored role, or RoleNone when absent or unrecognised.
func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, _ := ParseRole(s.role)
	return role
}

// Clear removes all three values together. The in-memory copy is always
// cleared, even when the repo fails, so the process never keeps acting on a
// session it was asked to drop.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken, s.refreshToken, s.role = "", "", ""
	if err := s.repo.Delete(ctx, s.namespace, allKeys...); err != nil {
		return fmt.Errorf("[Session Clear] failed to delete session: %w", err)
	}
	return nil
}

// Logout is an alias for Clear.
func (s *Session) Logout(ctx context.Context) error {
	return s.Clear(ctx)
}
