package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NiccAngelo/my-shopify/models"
)

const (
	productTTL = 30 * time.Second
	versionKey = "products:ver"
)

// ProductCache is a read-through cache for product listings, keyed by the
// (category, search) filter pair. Admin writes bump a version counter so
// stale listings fall out immediately. A nil *ProductCache is valid and
// behaves as a permanent miss.
type ProductCache struct {
	rdb *redis.Client
}

// NewProductCache connects to Redis at addr. Returns nil when addr is
// empty, which disables caching entirely.
func NewProductCache(addr string) *ProductCache {
	if addr == "" {
		return nil
	}
	return &ProductCache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *ProductCache) key(ctx context.Context, category, search string) (string, error) {
	ver, err := c.rdb.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("products:v%d:%s:%s", ver, category, search), nil
}

// Get returns the cached listing for the filter pair, if present.
func (c *ProductCache) Get(ctx context.Context, category, search string) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	key, err := c.key(ctx, category, search)
	if err != nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false
	}
	return products, true
}

// Set stores the listing for the filter pair.
func (c *ProductCache) Set(ctx context.Context, category, search string, products []models.Product) {
	if c == nil {
		return
	}
	key, err := c.key(ctx, category, search)
	if err != nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, productTTL)
}

// Invalidate drops every cached listing by bumping the version counter.
// Called after any admin product write.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.rdb.Incr(ctx, versionKey)
}
