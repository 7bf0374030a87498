package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-payout-attest/core"
)

type AuthorizeFunc func(ctx context.Context) (string, error)

type CacheConfig struct {
	Authorize AuthorizeFunc

	// SafetyWindow is the local lifetime assigned to a freshly authorized
	// token. It must stay strictly below the server-side token lifetime.
	SafetyWindow time.Duration

	// SeededToken pre-populates the cache from a caller-supplied token;
	// SeededLifetime is the conservative remaining lifetime assumed for it.
	SeededToken    string
	SeededLifetime time.Duration

	Now func() time.Time
}

// Cache holds the current bearer token and its expiry. Concurrent callers
// hitting a stale cache coalesce onto a single in-flight authorization; a
// failed authorization commits nothing.
type Cache struct {
	mu        sync.Mutex
	authorize AuthorizeFunc
	window    time.Duration
	now       func() time.Time

	token     string
	expiresAt time.Time
	inflight  *inflightAuthorize
}

type inflightAuthorize struct {
	done  chan struct{}
	token string
	err   error
}

func NewCache(cfg CacheConfig) *Cache {
	window := cfg.SafetyWindow
	if window <= 0 {
		window = core.DefaultTokenSafetyWindow
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	cache := &Cache{
		authorize: cfg.Authorize,
		window:    window,
		now:       now,
	}
	if seeded := strings.TrimSpace(cfg.SeededToken); seeded != "" {
		lifetime := cfg.SeededLifetime
		if lifetime <= 0 {
			lifetime = core.DefaultSeededTokenLifetime
		}
		cache.token = seeded
		cache.expiresAt = now().Add(lifetime)
	}
	return cache
}

// EnsureFresh returns the cached token while now < expiry, otherwise
// authorizes once (coalescing concurrent refreshes) and caches the result
// with a fresh safety window.
func (c *Cache) EnsureFresh(ctx context.Context) (string, error) {
	if c == nil {
		return "", &core.AuthorizationError{Message: "token cache is not configured"}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}

	if c.inflight != nil {
		call := c.inflight
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if c.authorize == nil {
		c.mu.Unlock()
		return "", &core.AuthorizationError{Message: "token is stale and no authorizer is configured"}
	}

	call := &inflightAuthorize{done: make(chan struct{})}
	c.inflight = call
	c.mu.Unlock()

	token, err := c.authorize(ctx)

	c.mu.Lock()
	if err == nil {
		c.token = token
		c.expiresAt = c.now().Add(c.window)
	}
	call.token = token
	call.err = err
	c.inflight = nil
	c.mu.Unlock()
	close(call.done)

	return token, err
}

// Cached reports the current token without triggering authorization.
func (c *Cache) Cached() (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || !c.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}
