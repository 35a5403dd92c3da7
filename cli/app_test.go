package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/traveline-backoffice/internal/config"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, env map[string]string) config.Config {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("FOLDER", t.TempDir())
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestOpenSessionRepo(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		backend string
		env     map[string]string
	}{
		{config.SessionBackendMemory, nil},
		{config.SessionBackendFile, nil},
		{config.SessionBackendSQLite, nil},
		{config.SessionBackendRedis, map[string]string{"REDIS_ADDR": mr.Addr()}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			env := map[string]string{"SESSION_BACKEND": tt.backend}
			for k, v := range tt.env {
				env[k] = v
			}
			cfg := loadConfig(t, env)
			ctx := context.Background()

			repo, closeRepo, err := openSessionRepo(ctx, cfg)
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, closeRepo()) })

			require.NoError(t, repo.Set(ctx, "ns", "traveline_role", "admin"))
			got, err := repo.Get(ctx, "ns", "traveline_role")
			require.NoError(t, err)
			require.Equal(t, "admin", got["traveline_role"])
		})
	}
}

func TestOpenSessionRepo_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := openSessionRepo(ctx, loadConfig(t, map[string]string{"SESSION_BACKEND": "etcd"}))
	require.ErrorIs(t, err, errors.ErrUnsupported)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, _, err = openSessionRepo(ctx, loadConfig(t, map[string]string{"SESSION_BACKEND": "redis", "REDIS_ADDR": addr}))
	require.ErrorContains(t, err, "unreachable")
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"q=hue", "limit=10", "q=hoi an"})
	require.NoError(t, err)
	require.Equal(t, []string{"hue", "hoi an"}, params["q"])
	require.Equal(t, "10", params.Get("limit"))

	_, err = parseParams([]string{"=x"})
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestIsLoopback(t *testing.T) {
	tests := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   false,
		"":          false,
		"10.0.0.4":  false,
	}
	for host, want := range tests {
		t.Run(host, func(t *testing.T) {
			require.Equal(t, want, isLoopback(host))
		})
	}
}
