package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/traveline-backoffice/api"
	"github.com/jrsteele09/traveline-backoffice/auth"
	"github.com/jrsteele09/traveline-backoffice/dashboard"
	"github.com/jrsteele09/traveline-backoffice/guard"
	"github.com/jrsteele09/traveline-backoffice/internal/config"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/query"
	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/jrsteele09/traveline-backoffice/session/filerepo"
	"github.com/jrsteele09/traveline-backoffice/session/redisrepo"
	"github.com/jrsteele09/traveline-backoffice/session/repofake"
	"github.com/jrsteele09/traveline-backoffice/session/sqliterepo"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// app is everything one command needs, built from the config.
type app struct {
	session   *session.Session
	auth      *auth.Service
	dashboard *dashboard.Service
	closeRepo func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	repo, closeRepo, err := openSessionRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(repo, session.Namespace(cfg.GetAPIBaseURL()))
	if err := sess.Init(ctx); err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("[App] failed to load session: %w", err)
	}

	client, err := api.New(cfg.GetAPIBaseURL(), sess, api.WithTimeout(cfg.GetAPITimeout()))
	if err != nil {
		_ = closeRepo()
		return nil, err
	}
	cache := query.New(cfg.GetKeepUnusedFor())

	return &app{
		session:   sess,
		auth:      auth.NewService(client, sess, cache),
		dashboard: dashboard.New(client, cache),
		closeRepo: closeRepo,
	}, nil
}

func (a *app) Close() {
	if err := a.closeRepo(); err != nil {
		log.Err(err).Msg("Failed to close session storage")
	}
}

// requireAdmin runs the dashboard guard. A denial has already cleared the
// stored session by the time the error is returned.
func (a *app) requireAdmin(ctx context.Context) error {
	d := guard.New(a.session, session.RoleAdmin).Evaluate(ctx)
	switch d.Reason {
	case guard.ReasonNone:
		return nil
	case guard.ReasonRole:
		return errors.Wrapf(errors.ErrInvalidRole, "this command needs an administrator, please log in again with `traveline login`")
	case guard.ReasonInvalidToken:
		return errors.Wrapf(errors.ErrInvalidToken, "your session has expired, please log in with `traveline login`")
	}
	return errors.Wrapf(errors.ErrNoSession, "please log in with `traveline login`")
}

func openSessionRepo(ctx context.Context, cfg config.Config) (session.Repo, func() error, error) {
	noop := func() error { return nil }

	switch backend := cfg.GetSessionBackend(); backend {
	case config.SessionBackendMemory:
		return repofake.NewFakeSessionRepo(), noop, nil

	case config.SessionBackendFile:
		repo, err := filerepo.New(cfg.GetSessionFile(cfg.GetDataFolder()))
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil

	case config.SessionBackendSQLite:
		path := cfg.GetSQLitePath(cfg.GetDataFolder())
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("[Session Storage] failed to create folder: %w", err)
		}
		repo, err := sqliterepo.New(path)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("[Session Storage] redis %s unreachable: %w", cfg.GetRedisAddr(), err)
		}
		return redisrepo.New(client), client.Close, nil

	default:
		return nil, nil, errors.Wrapf(errors.ErrUnsupported, "session backend %q", backend)
	}
}
