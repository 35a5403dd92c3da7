package sqliterepo_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/jrsteele09/traveline-backoffice/session/repotest"
	"github.com/jrsteele09/traveline-backoffice/session/sqliterepo"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSessionRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	repo, err := sqliterepo.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	repotest.Run(t, repo, func(t *testing.T) session.Repo {
		reopened, err := sqliterepo.New(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = reopened.Close() })
		return reopened
	})
}
