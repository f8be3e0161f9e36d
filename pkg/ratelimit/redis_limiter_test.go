package ratelimit

import (
	"net"
	"testing"
	"time"

	"jammanage-backend/internal/config"
	"jammanage-backend/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, cfg *Config) *RedisRateLimiter {
	t.Helper()

	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	client := redis.NewClient(config.RedisConfig{
		Host:        host,
		Port:        port,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	}, zap.NewNop())
	t.Cleanup(func() { client.Close() })

	return NewRedisRateLimiter(client, cfg)
}

func TestAllowWithinBurst(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	for i := 0; i < 5; i++ {
		allowed, _, err := limiter.Allow("1.2.3.4", "POST", "/api/v1/auth/login")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := limiter.Allow("1.2.3.4", "POST", "/api/v1/auth/login")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestClientsAreIndependent(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	for i := 0; i < 5; i++ {
		_, _, err := limiter.Allow("1.2.3.4", "POST", "/api/v1/auth/login")
		require.NoError(t, err)
	}

	allowed, _, err := limiter.Allow("5.6.7.8", "POST", "/api/v1/auth/login")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCategoriesHaveSeparateBudgets(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	for i := 0; i < 5; i++ {
		_, _, err := limiter.Allow("1.2.3.4", "POST", "/api/v1/auth/login")
		require.NoError(t, err)
	}

	// Exhausting the login budget leaves catalogue reads untouched.
	allowed, _, err := limiter.Allow("1.2.3.4", "GET", "/api/v1/public/vehicles")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	limiter := newTestLimiter(t, cfg)

	for i := 0; i < 50; i++ {
		allowed, _, err := limiter.Allow("1.2.3.4", "POST", "/api/v1/auth/login")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestStatsCountBlockedRequests(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	for i := 0; i < 7; i++ {
		_, _, err := limiter.Allow("1.2.3.4", "POST", "/api/v1/auth/login")
		require.NoError(t, err)
	}

	stats := limiter.GetStats()
	assert.Equal(t, int64(7), stats.TotalRequests)
	assert.Equal(t, int64(2), stats.BlockedRequests)
}

func TestCategoryMapping(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "auth_login", cfg.Category("POST", "/api/v1/auth/login"))
	assert.Equal(t, "health", cfg.Category("GET", "/api/v1/health"))
	assert.Equal(t, "public", cfg.Category("GET", "/api/v1/public/vehicles"))
	assert.Equal(t, "admin_read", cfg.Category("GET", "/api/v1/vehicles"))
	assert.Equal(t, "admin_write", cfg.Category("POST", "/api/v1/vehicles"))
	assert.Equal(t, "default", cfg.Category("GET", "/metrics"))
}
