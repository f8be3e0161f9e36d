package ratelimit

import (
	"strings"
	"time"
)

// Config holds limits per endpoint category plus the Redis key layout.
type Config struct {
	Limits         map[string]RateLimit `json:"limits"`
	RedisKeyPrefix string               `json:"redisKeyPrefix"`
	Enabled        bool                 `json:"enabled"`
}

// DefaultConfig returns the limits used by the admin API. Login is the
// tightest category since it is the brute-force surface; catalogue reads
// are the most permissive.
func DefaultConfig() *Config {
	return &Config{
		Limits: map[string]RateLimit{
			"auth_login":  {BurstSize: 5, WindowSize: time.Minute},
			"admin_write": {BurstSize: 30, WindowSize: time.Minute},
			"admin_read":  {BurstSize: 120, WindowSize: time.Minute},
			"public":      {BurstSize: 300, WindowSize: time.Minute},
			"health":      {BurstSize: 600, WindowSize: time.Minute},
			"default":     {BurstSize: 60, WindowSize: time.Minute},
		},
		RedisKeyPrefix: "ratelimit:",
		Enabled:        true,
	}
}

// Category maps a request to an endpoint category.
func (c *Config) Category(method, path string) string {
	switch {
	case path == "/api/v1/auth/login":
		return "auth_login"
	case path == "/api/v1/health":
		return "health"
	case strings.HasPrefix(path, "/api/v1/public/"):
		return "public"
	case strings.HasPrefix(path, "/api/v1/"):
		if method == "GET" {
			return "admin_read"
		}
		return "admin_write"
	}
	return "default"
}

// LimitFor returns the limit for a category, falling back to default.
func (c *Config) LimitFor(category string) RateLimit {
	if limit, ok := c.Limits[category]; ok {
		return limit
	}
	if limit, ok := c.Limits["default"]; ok {
		return limit
	}
	return RateLimit{BurstSize: 60, WindowSize: time.Minute}
}
