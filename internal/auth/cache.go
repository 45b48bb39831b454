package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores tenant lookups for already-verified credentials.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedVerifier memoizes successful verifications so repeated requests with
// the same credential skip the identity provider. Failed verifications are
// never cached: a token revoked upstream stays usable at most for the TTL,
// an invalid token is re-checked every time.
type CachedVerifier struct {
	inner Verifier
	cache TokenCache
	ttl   time.Duration
}

// Compile-time check that CachedVerifier implements Verifier.
var _ Verifier = (*CachedVerifier)(nil)

// NewCachedVerifier wraps inner with a cache. Cache faults degrade to a
// straight provider call rather than failing the request.
func NewCachedVerifier(inner Verifier, cache TokenCache, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{inner: inner, cache: cache, ttl: ttl}
}

func (v *CachedVerifier) Verify(ctx context.Context, credential string) (string, error) {
	key := cacheKey(credential)

	tenant, ok, err := v.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("token cache read failed", "error", err)
	} else if ok {
		return tenant, nil
	}

	tenant, err = v.inner.Verify(ctx, credential)
	if err != nil {
		return "", err
	}

	if err := v.cache.Set(ctx, key, tenant, v.ttl); err != nil {
		slog.Warn("token cache write failed", "error", err)
	}
	return tenant, nil
}

// cacheKey hashes the credential so raw tokens never land in the cache.
func cacheKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return "knotes:token:" + hex.EncodeToString(sum[:])
}

// RedisCache implements TokenCache on a Redis instance.
type RedisCache struct {
	client *redis.Client
}

// Compile-time check that RedisCache implements TokenCache.
var _ TokenCache = (*RedisCache)(nil)

// NewRedisCache connects to the Redis instance described by the URL
// (e.g. "redis://localhost:6379/0").
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
