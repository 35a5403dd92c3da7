// Package auth exchanges operator credentials for tokens and keeps the
// stored role in step with the backend's view of the current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/traveline-backoffice/api"
	"github.com/jrsteele09/traveline-backoffice/query"
	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/rs/zerolog/log"
)

const (
	PathLogin   = "auth/login"
	PathProfile = "auth/profile"

	profileKey = "auth/profile"
)

// MeTag is held by the current-user profile and invalidated by login and logout.
var MeTag = query.Tag{Resource: "auth", ID: "ME"}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
	Role         string `json:"role,omitempty"`
}

type Profile struct {
	UserID   int    `json:"userId" validate:"required"`
	Username string `json:"username" validate:"required"`
	Role     string `json:"role,omitempty"`
}

type Service struct {
	client  *api.Client
	session *session.Session
	cache   *query.Cache
}

func NewService(client *api.Client, s *session.Session, cache *query.Cache) *Service {
	return &Service{client: client, session: s, cache: cache}
}

// Login posts creds without a bearer header. Empty values are sent as they
// are; the backend decides. On success all returned values are stored before
// Login returns. On failure the session is left untouched.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		req := api.Request{Method: http.MethodPost, Path: PathLogin, Body: creds, Anonymous: true}
		if err := s.client.Do(ctx, req, &resp); err != nil {
			return err
		}
		return s.persist(ctx, resp)
	}, MeTag)
	if err != nil {
		return nil, err
	}

	log.Info().Str("username", creds.Username).Str("role", resp.Role).Msg("Operator logged in")
	return &resp, nil
}

func (s *Service) persist(ctx context.Context, resp LoginResponse) error {
	err := s.session.SetAccessToken(ctx, resp.AccessToken)
	if err == nil {
		err = s.session.SetRefreshToken(ctx, resp.RefreshToken)
	}
	if err == nil && resp.Role != "" {
		err = s.session.SetRole(ctx, session.Role(resp.Role))
	}
	if err != nil {
		// Never leave half a session behind.
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			log.Err(clearErr).Msg("Login: failed to clear partial session")
		}
		return fmt.Errorf("[Auth Login] failed to store session: %w", err)
	}
	return nil
}

// ProfileQuery is the current-user query. Fetching it refreshes the stored
// role on success and clears the session on any failure; it never redirects.
func (s *Service) ProfileQuery() query.Query {
	return query.NewQuery(profileKey, s.fetchProfile, func(*Profile) []query.Tag {
		return []query.Tag{MeTag}
	}, MeTag)
}

func (s *Service) fetchProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := s.client.Get(ctx, PathProfile, nil, &p)
	if err != nil {
		// A fetch abandoned by its own subscribers says nothing about the token.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.Warn().Err(err).Int("status", api.StatusOf(err)).Msg("Profile fetch failed, clearing session")
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			log.Err(clearErr).Msg("Profile: failed to clear session")
		}
		return nil, err
	}

	if p.Role != "" {
		if err := s.session.SetRole(ctx, session.Role(p.Role)); err != nil {
			log.Err(err).Msg("Profile: failed to refresh stored role")
		}
	}
	return &p, nil
}

// Profile reads the current user through the cache.
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	return query.Get[*Profile](ctx, s.cache, s.ProfileQuery())
}

// Logout clears the session and drops the cached profile.
func (s *Service) Logout(ctx context.Context) error {
	err := s.session.Logout(ctx)
	s.cache.Invalidate(MeTag)
	if err != nil {
		return fmt.Errorf("[Auth Logout] %w", err)
	}
	log.Info().Msg("Operator logged out")
	return nil
}

func (s *Service) Session() *session.Session {
	return s.session
}
