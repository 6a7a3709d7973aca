package redis

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Client is a reachability-aware Redis client.
type Client struct {
	rdb       *goredis.Client
	logger    *zap.Logger
	interval  time.Duration
	available atomic.Bool

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New builds a client. No connection is made until the first command or Connect.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	dialTimeout := time.Duration(cfg.DialTimeoutSeconds) * time.Second
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	c := &Client{
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}

	c.rdb = goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: dialTimeout,
		MaxRetries:  1,
		OnConnect: func(ctx context.Context, cn *goredis.Conn) error {
			c.markAvailable()
			return nil
		},
	})

	return c
}

// Connect pings the server once and starts the health check loop.
// A failed ping only logs: the loop keeps trying in the background.
func (c *Client) Connect(ctx context.Context) {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.available.Store(false)
		c.logger.Warn("Redis unreachable, continuing with local cache", zap.Error(err))
	} else {
		c.markAvailable()
	}

	c.wg.Add(1)
	go c.healthLoop()
}

// Available reports whether the server is currently considered reachable.
func (c *Client) Available() bool {
	return c.available.Load()
}

// Get returns the value stored at key. The second result is false on a miss,
// while unreachable, or on any error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Available() {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		c.observe("get", err)
		return nil, false
	}
	return val, true
}

// Set stores value at key with the given expiry. It reports whether the write landed.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if !c.Available() {
		return false
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.observe("set", err)
		return false
	}
	return true
}

// Keys lists keys matching pattern.
func (c *Client) Keys(ctx context.Context, pattern string) []string {
	if !c.Available() {
		return nil
	}
	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		c.observe("keys", err)
		return nil
	}
	return keys
}

// Del removes keys and returns how many existed.
func (c *Client) Del(ctx context.Context, keys ...string) int64 {
	if !c.Available() || len(keys) == 0 {
		return 0
	}
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.observe("del", err)
		return 0
	}
	return n
}

// Close stops the health loop and closes the connection pool.
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
	c.available.Store(false)
	return c.rdb.Close()
}

func (c *Client) healthLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), c.interval)
			c.checkHealth(ctx)
			cancel()
		}
	}
}

// checkHealth pings the server and updates the reachability flag.
func (c *Client) checkHealth(ctx context.Context) {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.observe("ping", err)
		return
	}
	c.markAvailable()
}

func (c *Client) markAvailable() {
	if !c.available.Swap(true) {
		c.logger.Info("Redis reachable")
	}
}

// observe clears the reachability flag on transport errors and logs the rest.
func (c *Client) observe(op string, err error) {
	if isTransportError(err) {
		if c.available.Swap(false) {
			c.logger.Warn("Redis unreachable, degrading to local cache", zap.String("op", op), zap.Error(err))
		}
		return
	}
	c.logger.Warn("Redis command failed", zap.String("op", op), zap.Error(err))
}

func isTransportError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, goredis.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
