package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// The system of record lives behind an HTTP+JSON API. Everything here is
// env-driven so deployments can repoint the service without a rebuild.

func RemoteBaseURL() string {
	v := strings.TrimSpace(os.Getenv("REMOTE_API_BASE_URL"))
	if v == "" {
		return "http://localhost:8000/api"
	}
	return strings.TrimRight(v, "/")
}

func RemoteAPIKey() string {
	return strings.TrimSpace(os.Getenv("REMOTE_API_KEY"))
}

func RemoteAPIKeyHeader() string {
	v := strings.TrimSpace(os.Getenv("REMOTE_API_KEY_HEADER"))
	if v == "" {
		return "X-API-Key"
	}
	return v
}

func RemoteTimeout() time.Duration {
	if v := strings.TrimSpace(os.Getenv("REMOTE_API_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 30 * time.Second
}

// SessionHours is the sliding session window. The UI treats 8 hours as the
// contract, so changing this is a product decision, not an ops knob.
func SessionHours() time.Duration {
	if v := strings.TrimSpace(os.Getenv("SESSION_HOUR_LIFESPAN")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return 8 * time.Hour
}

// HeartbeatInterval is how often the session sweeper re-checks validity.
func HeartbeatInterval() time.Duration {
	if v := strings.TrimSpace(os.Getenv("SESSION_SWEEP_SECONDS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 30 * time.Second
}
