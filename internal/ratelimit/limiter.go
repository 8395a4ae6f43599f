// Package ratelimit provides the request limiters used by the HTTP middleware.
// Two backends share the Limiter interface: an in-process visitor map and a
// Redis token bucket for deployments running several server replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a request identified by key may proceed / Décide si une requête peut passer
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Backend names / Noms des backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options configures a limiter / Configure un limiteur
type Options struct {
	Backend string
	RPS     float64
	Burst   int
	// Name namespaces Redis keys so several limiters can share one server
	Name      string
	KeyPrefix string
}

// New builds a limiter for the configured backend / Construit un limiteur pour le backend configuré
// ctx bounds the lifetime of the memory backend's cleanup goroutine.
func New(ctx context.Context, opts Options, client *redis.Client) (Limiter, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryLimiter(ctx, opts.RPS, opts.Burst), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis rate limiter %q: no redis client", opts.Name)
		}
		// Idle buckets expire once they would be full again
		ttl := time.Duration(float64(opts.Burst)/opts.RPS*float64(time.Second)) + time.Minute
		tb := NewTokenBucket(client, opts.Burst, opts.RPS, ttl)
		tb.prefix = opts.KeyPrefix + "ratelimit:" + opts.Name + ":"
		return tb, nil
	default:
		return nil, fmt.Errorf("unknown rate limiter backend: %s", opts.Backend)
	}
}
