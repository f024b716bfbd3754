// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Backend names reported by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
	// MaxEntries bounds the memory backend.
	MaxEntries int
}

// New creates a Redis cache when RedisURL is set and reachable, otherwise a
// memory cache. The returned backend name tells which one was chosen; err
// carries the Redis failure that caused a fallback, if any.
func New(cfg Config) (c Cacher, backend string, err error) {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}
		rc, rerr := NewRedisCache(opts)
		if rerr == nil {
			return rc, BackendRedis, nil
		}
		slog.Warn("redis unavailable, using memory cache", "error", rerr)
		err = rerr
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxEntries:      cfg.MaxEntries,
		CleanupInterval: time.Minute,
	}), BackendMemory, err
}
