package guard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/traveline-backoffice/guard"
	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/jrsteele09/traveline-backoffice/session/repofake"
	"github.com/stretchr/testify/require"
)

const ns = "http://localhost:3000"

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"sub": "1", "exp": exp.Unix()})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newSession(t *testing.T, accessToken string, role session.Role) (*session.Session, *repofake.FakeSessionRepo) {
	t.Helper()
	ctx := context.Background()
	repo := repofake.NewFakeSessionRepo()
	s := session.New(repo, ns)
	require.NoError(t, s.Init(ctx))
	if accessToken != "" {
		require.NoError(t, s.SetAccessToken(ctx, accessToken))
		require.NoError(t, s.SetRefreshToken(ctx, "refresh"))
	}
	if role != session.RoleNone {
		require.NoError(t, s.SetRole(ctx, role))
	}
	return s, repo
}

func TestEvaluate(t *testing.T) {
	valid := mintToken(t, time.Now().Add(time.Hour))
	expired := mintToken(t, time.Now().Add(-time.Minute))

	tests := []struct {
		name         string
		accessToken  string
		role         session.Role
		requiredRole session.Role
		wantState    guard.State
		wantReason   guard.Reason
	}{
		{"no token", "", session.RoleAdmin, session.RoleAdmin, guard.Denied, guard.ReasonNoToken},
		{"no token without role gate", "", session.RoleNone, session.RoleNone, guard.Denied, guard.ReasonNoToken},
		{"expired token", expired, session.RoleAdmin, session.RoleAdmin, guard.Denied, guard.ReasonInvalidToken},
		{"malformed token", "abc.def", session.RoleAdmin, session.RoleAdmin, guard.Denied, guard.ReasonInvalidToken},
		{"user on admin area", valid, session.RoleUser, session.RoleAdmin, guard.Denied, guard.ReasonRole},
		{"missing role on admin area", valid, session.RoleNone, session.RoleAdmin, guard.Denied, guard.ReasonRole},
		{"admin on admin area", valid, session.RoleAdmin, session.RoleAdmin, guard.Allowed, guard.ReasonNone},
		{"user without role gate", valid, session.RoleUser, session.RoleNone, guard.Allowed, guard.ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newSession(t, tt.accessToken, tt.role)
			g := guard.New(s, tt.requiredRole)

			d := g.Evaluate(context.Background())
			require.Equal(t, tt.wantState, d.State)
			require.Equal(t, tt.wantReason, d.Reason)

			if d.State == guard.Denied {
				require.Empty(t, s.AccessToken())
				require.Empty(t, s.RefreshToken())
				require.Equal(t, session.RoleNone, s.Role())
				require.Empty(t, repo.Raw(ns))
			} else {
				require.Equal(t, tt.accessToken, s.AccessToken())
			}
		})
	}
}

func TestEvaluate_RoleNeverConsultedWithoutToken(t *testing.T) {
	s, _ := newSession(t, "", session.RoleAdmin)
	require.Equal(t, session.RoleAdmin, s.Role())

	d := guard.New(s, session.RoleAdmin).Evaluate(context.Background())
	require.Equal(t, guard.ReasonNoToken, d.Reason)
	require.Equal(t, session.RoleNone, s.Role())
}

func TestMiddleware(t *testing.T) {
	valid := mintToken(t, time.Now().Add(time.Hour))
	expired := mintToken(t, time.Now().Add(-time.Minute))

	protected := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("protected"))
	}

	t.Run("denied request is redirected to entry route", func(t *testing.T) {
		s, _ := newSession(t, expired, session.RoleAdmin)
		handler := guard.New(s, session.RoleAdmin).Middleware()(protected)

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/dashboard/destinations", nil))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.NotContains(t, rec.Body.String(), "protected")
		require.Empty(t, s.AccessToken())
	})

	t.Run("custom entry route", func(t *testing.T) {
		s, _ := newSession(t, "", session.RoleNone)
		g := guard.New(s, session.RoleAdmin)
		g.EntryRoute = "/login"

		rec := httptest.NewRecorder()
		g.Middleware()(protected)(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("allowed request reaches the handler", func(t *testing.T) {
		s, _ := newSession(t, valid, session.RoleAdmin)
		handler := guard.New(s, session.RoleAdmin).Middleware()(protected)

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "protected", rec.Body.String())
	})

	t.Run("every request is re-evaluated", func(t *testing.T) {
		s, _ := newSession(t, valid, session.RoleAdmin)
		handler := guard.New(s, session.RoleAdmin).Middleware()(protected)

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, s.Logout(context.Background()))

		rec = httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

// headerBinding accepts requests carrying X-Operator: alice.
type headerBinding struct {
	unbound int
}

func (b *headerBinding) Bound(r *http.Request) bool {
	return r.Header.Get("X-Operator") == "alice"
}

func (b *headerBinding) Unbind(w http.ResponseWriter, r *http.Request) {
	b.unbound++
}

func TestMiddleware_Binding(t *testing.T) {
	valid := mintToken(t, time.Now().Add(time.Hour))
	protected := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("unbound request is refused and the session survives", func(t *testing.T) {
		s, _ := newSession(t, valid, session.RoleAdmin)
		b := &headerBinding{}
		g := guard.New(s, session.RoleAdmin)
		g.Binding = b

		rec := httptest.NewRecorder()
		g.Middleware()(protected)(rec, httptest.NewRequest(http.MethodPost, "/dashboard/api/users", nil))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Equal(t, valid, s.AccessToken())
		require.Zero(t, b.unbound)
	})

	t.Run("bound request reaches the handler", func(t *testing.T) {
		s, _ := newSession(t, valid, session.RoleAdmin)
		g := guard.New(s, session.RoleAdmin)
		g.Binding = &headerBinding{}

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("X-Operator", "alice")
		rec := httptest.NewRecorder()
		g.Middleware()(protected)(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("token denial also releases the binding", func(t *testing.T) {
		s, _ := newSession(t, valid, session.RoleUser)
		b := &headerBinding{}
		g := guard.New(s, session.RoleAdmin)
		g.Binding = b

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("X-Operator", "alice")
		rec := httptest.NewRecorder()
		g.Middleware()(protected)(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, 1, b.unbound)
		require.Empty(t, s.AccessToken())
	})
}
