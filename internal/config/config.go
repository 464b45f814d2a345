package config

import "time"

type Config interface {
	EnvConfig
	BackendConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type BackendConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
}

type SessionConfig interface {
	GetSessionStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetMaxSessionAge() time.Duration
	GetCookieSecure() bool
}

type mainConfig struct {
	EnvVars
	Backend
	Sessions
}

func New() Config {
	return mainConfig{}
}
