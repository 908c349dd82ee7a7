// Package cache provides a small key/value cache with in-process and Redis
// drivers.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client is a string key/value cache.
type Client interface {
	// Get returns ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; a zero ttl never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("cache: key not found")

// Config selects and configures a driver.
type Config struct {
	Driver   string // memory | redis
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New creates a Client for cfg.Driver. Unknown drivers fall back to memory.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}

func prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
