package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	catalogListKey       = "storefront:catalog:products"
	catalogProductPrefix = "storefront:catalog:product:"
)

// RedisCatalogCache stores JSON snapshots of products with a fixed TTL.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCatalogCache{client: client, ttl: ttl}
}

func (c *RedisCatalogCache) GetProduct(ctx context.Context, productID int64) (domain.Product, bool, error) {
	var p domain.Product
	ok, err := c.get(ctx, productKey(productID), &p)
	return p, ok, err
}

func (c *RedisCatalogCache) PutProduct(ctx context.Context, product domain.Product) error {
	return c.put(ctx, productKey(product.ID), product)
}

func (c *RedisCatalogCache) GetProductList(ctx context.Context) ([]domain.Product, bool, error) {
	var products []domain.Product
	ok, err := c.get(ctx, catalogListKey, &products)
	return products, ok, err
}

func (c *RedisCatalogCache) PutProductList(ctx context.Context, products []domain.Product) error {
	return c.put(ctx, catalogListKey, products)
}

// Invalidate always drops the list key along with the given products.
func (c *RedisCatalogCache) Invalidate(ctx context.Context, productIDs ...int64) error {
	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, catalogListKey)
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCatalogCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a stale schema is treated as a miss
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCatalogCache) put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func productKey(id int64) string {
	return catalogProductPrefix + strconv.FormatInt(id, 10)
}
