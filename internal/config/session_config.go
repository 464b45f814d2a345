package config

import "time"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Sessions struct{}

var _ SessionConfig = Sessions{}

// GetSessionStore selects where sessions are persisted: "memory" or "redis".
func (Sessions) GetSessionStore() string {
	return GetEnv("SESSION_STORE", SessionStoreMemory)
}

func (Sessions) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Sessions) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Sessions) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}

func (Sessions) GetMaxSessionAge() time.Duration {
	return GetEnvDuration("SESSION_MAX_AGE", 24*time.Hour)
}

// GetCookieSecure forces the Secure flag on the session cookie even behind plain HTTP proxies.
func (Sessions) GetCookieSecure() bool {
	return GetEnvBool("COOKIE_SECURE", false)
}
