package config

import "path/filepath"

const (
	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type SessionConfig interface {
	GetSessionBackend() string
	GetSessionFile(dataFolder string) string
	GetSQLitePath(dataFolder string) string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Session struct {
	Backend       string `yaml:"backend" env:"SESSION_BACKEND" env-default:"file"`
	File          string `yaml:"file" env:"SESSION_FILE"`
	SQLitePath    string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionBackend() string {
	if s.Backend == "" {
		return SessionBackendFile
	}
	return s.Backend
}

func (s Session) GetSessionFile(dataFolder string) string {
	if s.File != "" {
		return s.File
	}
	return filepath.Join(dataFolder, "session.json")
}

func (s Session) GetSQLitePath(dataFolder string) string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return filepath.Join(dataFolder, "session.db")
}

func (s Session) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Session) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Session) GetRedisDB() int {
	return s.RedisDB
}
