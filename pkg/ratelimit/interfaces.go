package ratelimit

import "time"

// RateLimiter decides whether a request from a client may proceed. The
// returned duration is how long the client should wait when blocked.
type RateLimiter interface {
	Allow(clientID string, method string, path string) (bool, time.Duration, error)
	GetStats() RateLimiterStats
}

// RateLimit is a fixed-window limit for one endpoint category.
type RateLimit struct {
	BurstSize  int           `json:"burstSize"`
	WindowSize time.Duration `json:"windowSize"`
}

// RateLimiterStats provides counters about rate limiting activity.
type RateLimiterStats struct {
	TotalRequests   int64 `json:"totalRequests"`
	BlockedRequests int64 `json:"blockedRequests"`
}
