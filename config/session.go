package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where sessions, markers and avatars live.
type SessionBackend string

const (
	// SessionBackendMemory keeps state in process; it is lost on restart.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis keeps state in Redis with key TTLs.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch SessionBackend(v) {
	case SessionBackendMemory, SessionBackendRedis:
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

const (
	defaultSessionTTL = 8 * time.Hour
	defaultMarkerTTL  = 10 * time.Minute
)

// SessionConfig controls session and pending-destination lifetimes.
type SessionConfig struct {
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`

	// TTL caps how long a session stays active.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// MarkerTTL is how long a remembered destination waits for a login.
	MarkerTTL time.Duration `env:"SESSION_MARKER_TTL" envDefault:"10m"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

// Sanitize applies defaults to non-positive durations.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionBackendMemory
	}
	if c.TTL <= 0 {
		c.TTL = defaultSessionTTL
	}
	if c.MarkerTTL <= 0 {
		c.MarkerTTL = defaultMarkerTTL
	}
	if strings.TrimSpace(c.KeyPrefix) == "" {
		c.KeyPrefix = "session:"
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
