package redisrepo_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/jrsteele09/traveline-backoffice/session/redisrepo"
	"github.com/jrsteele09/traveline-backoffice/session/repotest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, addr string) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisSessionRepo(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := redisrepo.New(newClient(t, mr.Addr()))

	repotest.Run(t, repo, func(t *testing.T) session.Repo {
		return redisrepo.New(newClient(t, mr.Addr()))
	})

	require.True(t, mr.Exists("traveline:session:https://other.example.com"))
}
