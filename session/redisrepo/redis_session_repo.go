// Package redisrepo keeps sessions in a Redis hash, one hash per namespace.
package redisrepo

import (
	"context"
	"fmt"

	"github.com/jrsteele09/traveline-backoffice/session"
	"github.com/redis/go-redis/v9"
)

var _ session.Repo = (*RedisSessionRepo)(nil)

type RedisSessionRepo struct {
	redis *redis.Client
}

func New(client *redis.Client) *RedisSessionRepo {
	return &RedisSessionRepo{redis: client}
}

func hashKey(namespace string) string {
	return fmt.Sprintf("traveline:session:%s", namespace)
}

func (r *RedisSessionRepo) Get(ctx context.Context, namespace string, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := r.redis.HMGet(ctx, hashKey(namespace), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (r *RedisSessionRepo) Set(ctx context.Context, namespace, key, value string) error {
	if err := r.redis.HSet(ctx, hashKey(namespace), key, value).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete issues a single HDEL, which Redis applies atomically.
func (r *RedisSessionRepo) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.redis.HDel(ctx, hashKey(namespace), keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
