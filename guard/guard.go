// Package guard decides whether the current session may enter a protected
// area of the console.
package guard

import (
	"context"
	"net/http"

	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/jrsteele09/traveline-backoffice/token"
	"github.com/rs/zerolog/log"
)

const DefaultEntryRoute = "/"

type State int

const (
	Checking State = iota
	Allowed
	Denied
)

func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	}
	return "checking"
}

type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoToken      Reason = "no_token"
	ReasonInvalidToken Reason = "invalid_token"
	ReasonRole         Reason = "role"
	ReasonUnbound      Reason = "unbound"
)

type Decision struct {
	State  State
	Reason Reason
}

func (d Decision) Allowed() bool {
	return d.State == Allowed
}

// Binding ties an HTTP request to the operator who signed in, so a stored
// session is only usable from the client that created it.
type Binding interface {
	Bound(r *http.Request) bool
	Unbind(w http.ResponseWriter, r *http.Request)
}

type Guard struct {
	Session *session.Session

	// RequiredRole gates the area when set. RoleNone lets any valid session in.
	RequiredRole session.Role

	// EntryRoute is where denied requests are sent. Defaults to "/".
	EntryRoute string

	// Binding, when set, is checked by Middleware after the token rules.
	Binding Binding
}

func New(s *session.Session, requiredRole session.Role) *Guard {
	return &Guard{Session: s, RequiredRole: requiredRole, EntryRoute: DefaultEntryRoute}
}

// Evaluate applies the rules in order; the first failing rule denies. A
// denial clears the session before returning.
func (g *Guard) Evaluate(ctx context.Context) Decision {
	d := g.decide()
	if d.State == Denied {
		if err := g.Session.Clear(ctx); err != nil {
			log.Err(err).Str("reason", string(d.Reason)).Msg("Guard: failed to clear session")
		}
	}
	return d
}

func (g *Guard) decide() Decision {
	accessToken := g.Session.AccessToken()
	if accessToken == "" {
		return Decision{State: Denied, Reason: ReasonNoToken}
	}
	if !token.IsValid(accessToken) {
		return Decision{State: Denied, Reason: ReasonInvalidToken}
	}
	if g.RequiredRole != session.RoleNone && g.Session.Role() != g.RequiredRole {
		return Decision{State: Denied, Reason: ReasonRole}
	}
	return Decision{State: Allowed}
}

func (g *Guard) entryRoute() string {
	if g.EntryRoute == "" {
		return DefaultEntryRoute
	}
	return g.EntryRoute
}

// Middleware re-evaluates the guard on every request. Denied requests are
// redirected with 303 See Other so the protected page is replaced, not stacked.
//
// A request that fails only the binding check does not clear the session:
// it was not made by the operator, and must not be able to sign them out.
func (g *Guard) Middleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(r.Context())
			switch {
			case !d.Allowed():
				if g.Binding != nil {
					g.Binding.Unbind(w, r)
				}
			case g.Binding != nil && !g.Binding.Bound(r):
				d = Decision{State: Denied, Reason: ReasonUnbound}
			}
			if !d.Allowed() {
				log.Debug().Str("path", r.URL.Path).Str("reason", string(d.Reason)).Msg("Guard: access denied")
				http.Redirect(w, r, g.entryRoute(), http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}
