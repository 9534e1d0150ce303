package dataservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"shop-catalog/internal/catalog"
	"shop-catalog/internal/logger"
)

// cacheClient is the subset of *redis.Client the cache needs
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached is a Redis read-through cache in front of another DataService.
// Redis failures fall back to the wrapped service.
type Cached struct {
	next   catalog.DataService
	client cacheClient
	ttl    time.Duration
	prefix string
}

// NewCached wraps next with a cache whose entries expire after ttl
func NewCached(next catalog.DataService, client cacheClient, ttl time.Duration) *Cached {
	return &Cached{next: next, client: client, ttl: ttl, prefix: "shop-catalog:"}
}

func readThrough[T any](ctx context.Context, c *Cached, key string, load func(context.Context) (T, error)) (T, error) {
	key = c.prefix + key

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		logger.Warnf("cache %s: undecodable entry, reloading", key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warnf("cache %s: get: %v", key, err)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	data, err = json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warnf("cache %s: set: %v", key, err)
	}
	return v, nil
}

func (c *Cached) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return readThrough(ctx, c, "products", c.next.ListProducts)
}

func (c *Cached) ListBrands(ctx context.Context) ([]string, error) {
	return readThrough(ctx, c, "brands", c.next.ListBrands)
}

func (c *Cached) ListCategories(ctx context.Context) ([]string, error) {
	return readThrough(ctx, c, "categories", c.next.ListCategories)
}
