package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jammanage-backend/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps go-redis with connection supervision. Cache and rate limiter
// callers always go through GetClient so a reconnect swaps the underlying
// connection without coordination.
type Client struct {
	client        *redis.Client
	config        config.RedisConfig
	logger        *zap.Logger
	mu            sync.RWMutex
	isConnected   bool
	reconnectChan chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates a supervised Redis client. The connection is attempted
// immediately and retried in the background if it fails.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		config:        cfg,
		logger:        logger,
		reconnectChan: make(chan struct{}, 1),
		ctx:           ctx,
		cancel:        cancel,
	}

	c.connect()
	go c.healthCheckLoop()
	go c.reconnectLoop()

	return c
}

func (c *Client) connect() {
	opt := c.options()

	c.mu.Lock()
	c.client = redis.NewClient(opt)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.GetClient().Ping(ctx).Err()

	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("redis connection test failed", zap.Error(err))
	} else {
		c.logger.Info("redis connected", zap.String("addr", opt.Addr))
	}
}

func (c *Client) options() *redis.Options {
	var opt *redis.Options
	if c.config.URL != "" {
		parsed, err := redis.ParseURL(c.config.URL)
		if err == nil {
			opt = parsed
		} else {
			c.logger.Warn("failed to parse redis URL, falling back to host:port", zap.Error(err))
		}
	}
	if opt == nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
			Password: c.config.Password,
			DB:       c.config.DB,
		}
	}

	opt.PoolSize = c.config.PoolSize
	opt.MinIdleConns = c.config.MinIdleConns
	opt.MaxRetries = c.config.MaxRetries
	opt.MinRetryBackoff = c.config.RetryDelay
	opt.DialTimeout = c.config.DialTimeout
	opt.ReadTimeout = c.config.ReadTimeout
	opt.WriteTimeout = c.config.WriteTimeout
	opt.PoolTimeout = c.config.PoolTimeout
	return opt
}

// GetClient returns the underlying Redis client (thread-safe).
func (c *Client) GetClient() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// HealthCheck pings Redis and reports detailed status. A failed ping
// triggers the reconnect loop.
func (c *Client) HealthCheck() HealthStatus {
	client := c.GetClient()

	status := HealthStatus{
		IsConnected:    c.IsConnected(),
		ConnectionInfo: fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
	}

	if client == nil {
		status.Error = "redis client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		status.IsConnected = false
		status.Error = err.Error()
		c.triggerReconnect()
	} else {
		status.IsConnected = true
	}

	return status
}

func (c *Client) triggerReconnect() {
	select {
	case c.reconnectChan <- struct{}{}:
	default:
		// reconnection already pending
	}
}

func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			status := c.HealthCheck()
			if !status.IsConnected {
				c.logger.Warn("redis health check failed", zap.String("error", status.Error))
			}
		}
	}
}

func (c *Client) reconnectLoop() {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.reconnectChan:
			if c.IsConnected() {
				continue
			}

			c.logger.Info("attempting redis reconnect")

			c.mu.Lock()
			if c.client != nil {
				c.client.Close()
			}
			c.mu.Unlock()

			c.connect()

			if !c.IsConnected() {
				c.logger.Warn("redis reconnect failed", zap.Duration("retryIn", backoff))
				time.Sleep(backoff)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				c.triggerReconnect()
			} else {
				c.logger.Info("redis reconnected")
				backoff = time.Second
			}
		}
	}
}

// Close stops the supervision goroutines and closes the connection.
func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
