package config

import "time"

type CacheConfig interface {
	GetKeepUnusedFor() time.Duration
}

type Cache struct {
	KeepUnusedFor time.Duration `yaml:"keep_unused_for" env:"CACHE_KEEP_UNUSED_FOR" env-default:"60s"`
}

var _ CacheConfig = Cache{}

func (c Cache) GetKeepUnusedFor() time.Duration {
	return c.KeepUnusedFor
}
