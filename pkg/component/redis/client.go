// Package redis provides the Redis connection shared by the query and
// embedding caches.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	options "github.com/Shreeshail-sp/docsearch/pkg/options/redis"
)

// Client owns one go-redis connection pool.
type Client struct {
	rdb  *goredis.Client
	addr string
}

// New opens the pool and pings the server. A failed ping closes the pool.
func New(ctx context.Context, opts *options.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid redis options: %v", errs)
	}

	addr := opts.Addr()
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.Database,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolTimeout:  opts.PoolTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &Client{rdb: rdb, addr: addr}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string { return c.addr }

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Client returns the go-redis client used by the caches.
func (c *Client) Client() *goredis.Client {
	return c.rdb
}
