// Package repotest checks that a session.Repo behaves like persistent storage.
package repotest

import (
	"context"
	"testing"

	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/stretchr/testify/require"
)

// Run exercises repo through the contract every backend must honour.
// reopen must return a repo reading the same underlying storage, as a new
// process would after a restart.
func Run(t *testing.T, repo session.Repo, reopen func(t *testing.T) session.Repo) {
	t.Helper()
	ctx := context.Background()
	const ns = "http://localhost:3000"

	t.Run("get on empty storage", func(t *testing.T) {
		values, err := repo.Get(ctx, "http://empty", session.KeyAccessToken)
		require.NoError(t, err)
		require.Empty(t, values)
	})

	t.Run("set overwrites silently", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, ns, session.KeyAccessToken, "first"))
		require.NoError(t, repo.Set(ctx, ns, session.KeyAccessToken, "second"))

		values, err := repo.Get(ctx, ns, session.KeyAccessToken)
		require.NoError(t, err)
		require.Equal(t, "second", values[session.KeyAccessToken])
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "https://other.example.com", session.KeyAccessToken, "other"))

		values, err := repo.Get(ctx, ns, session.KeyAccessToken)
		require.NoError(t, err)
		require.Equal(t, "second", values[session.KeyAccessToken])
	})

	t.Run("survives reopen", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, ns, session.KeyRole, "admin"))

		reopened := reopen(t)
		values, err := reopened.Get(ctx, ns, session.KeyAccessToken, session.KeyRole, session.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			session.KeyAccessToken: "second",
			session.KeyRole:        "admin",
		}, values)
	})

	t.Run("delete removes every key", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, ns, session.KeyRefreshToken, "refresh"))
		require.NoError(t, repo.Delete(ctx, ns, session.KeyAccessToken, session.KeyRefreshToken, session.KeyRole))

		values, err := repo.Get(ctx, ns, session.KeyAccessToken, session.KeyRefreshToken, session.KeyRole)
		require.NoError(t, err)
		require.Empty(t, values)

		other, err := repo.Get(ctx, "https://other.example.com", session.KeyAccessToken)
		require.NoError(t, err)
		require.Equal(t, "other", other[session.KeyAccessToken])
	})

	t.Run("delete of missing keys is not an error", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "http://never-used", session.KeyRole))
	})
}
