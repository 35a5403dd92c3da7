package config

import (
	"fmt"
	"net"
	"strings"
)

// DefaultHost keeps the console on loopback. The console acts with the
// operator's stored session, so binding it to other interfaces exposes that
// session to whoever can reach the port; the cookie and origin checks in
// package server are the only thing standing between them.
const DefaultHost = "127.0.0.1"

type EnvVars struct {
	Host       string `yaml:"host" env:"HOST" env-default:"127.0.0.1"`
	Port       string `yaml:"port" env:"PORT" env-default:"8080"`
	AppName    string `yaml:"app_name" env:"APP_NAME" env-default:"Traveline Console"`
	DataFolder string `yaml:"folder" env:"FOLDER" env-default:"./data"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Env        string `yaml:"env" env:"ENV" env-default:"DEV"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetHost() string {
	if e.Host == "" {
		return DefaultHost
	}
	return e.Host
}

// GetListenAddr joins host and port, e.g. "127.0.0.1:8080".
func (e EnvVars) GetListenAddr() string {
	return net.JoinHostPort(e.GetHost(), strings.TrimPrefix(e.GetPort(), ":"))
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetDataFolder() string {
	return e.DataFolder
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}
