package config

import "time"

type Backend struct{}

var _ BackendConfig = Backend{}

// GetAPIBaseURL returns the REST backend's base URL (e.g., "https://api.example.com")
func (Backend) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:8000")
}

// GetAPITimeout bounds each backend call; "0s" disables the client-side timeout.
func (Backend) GetAPITimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", 30*time.Second)
}
