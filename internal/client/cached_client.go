package client

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/r4diorusak/InventoryHub/internal/cache"
	"github.com/r4diorusak/InventoryHub/internal/clock"
	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/internal/response"
)

// Well-known cache keys.
const (
	KeyAllProducts      = "all-products"
	KeyLowStockProducts = "low-stock-products"
)

// ProductKey is the cache key of a single product.
func ProductKey(id int) string {
	return fmt.Sprintf("product-%d", id)
}

// CachedClient serves reads from a TTL cache and evicts on every mutation.
//
// Only successful envelopes are cached. Create, update and delete always evict
// both list keys, whatever their outcome; update and delete also evict the
// product's own key. Cached envelopes are copied in and out, so callers may
// modify what they get back. A read whose fetch overlaps an eviction is
// returned but not cached.
type CachedClient struct {
	api   ProductAPI
	lists *cache.TTLCache[response.Envelope[[]models.Product]]
	items *cache.TTLCache[response.Envelope[models.Product]]

	mu         sync.Mutex
	generation uint64
}

var _ ProductAPI = (*CachedClient)(nil)

// NewCachedClient wraps api. A non-positive ttl selects cache.DefaultTTL.
func NewCachedClient(api ProductAPI, ttl time.Duration, clk clock.Clock) *CachedClient {
	return &CachedClient{
		api:   api,
		lists: cache.New[response.Envelope[[]models.Product]](ttl, clk),
		items: cache.New[response.Envelope[models.Product]](ttl, clk),
	}
}

// ListProducts returns active products, cached under KeyAllProducts.
func (c *CachedClient) ListProducts(ctx context.Context) response.Envelope[[]models.Product] {
	return cached(c, c.lists, KeyAllProducts, cloneProducts, func() response.Envelope[[]models.Product] {
		return c.api.ListProducts(ctx)
	})
}

// ListLowStock returns low-stock products, cached under KeyLowStockProducts.
func (c *CachedClient) ListLowStock(ctx context.Context) response.Envelope[[]models.Product] {
	return cached(c, c.lists, KeyLowStockProducts, cloneProducts, func() response.Envelope[[]models.Product] {
		return c.api.ListLowStock(ctx)
	})
}

// GetProduct returns one product, cached under ProductKey(id).
func (c *CachedClient) GetProduct(ctx context.Context, id int) response.Envelope[models.Product] {
	return cached(c, c.items, ProductKey(id), models.Product.Clone, func() response.Envelope[models.Product] {
		return c.api.GetProduct(ctx, id)
	})
}

// CreateProduct creates a product and evicts both lists.
func (c *CachedClient) CreateProduct(ctx context.Context, req models.CreateProductRequest) response.Envelope[models.Product] {
	env := c.api.CreateProduct(ctx, req)
	c.Invalidate(KeyAllProducts, KeyLowStockProducts)
	return env
}

// UpdateProduct updates a product and evicts both lists and the product.
func (c *CachedClient) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) response.Envelope[models.Product] {
	env := c.api.UpdateProduct(ctx, id, req)
	c.Invalidate(KeyAllProducts, KeyLowStockProducts, ProductKey(id))
	return env
}

// DeleteProduct deletes a product and evicts both lists and the product.
func (c *CachedClient) DeleteProduct(ctx context.Context, id int) response.Envelope[bool] {
	env := c.api.DeleteProduct(ctx, id)
	c.Invalidate(KeyAllProducts, KeyLowStockProducts, ProductKey(id))
	return env
}

// Invalidate evicts the given keys.
func (c *CachedClient) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lists.Invalidate(keys...)
	c.items.Invalidate(keys...)
}

// Clear empties the whole cache.
func (c *CachedClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lists.Clear()
	c.items.Clear()
}

// Len reports how many envelopes are cached.
func (c *CachedClient) Len() int {
	return c.lists.Len() + c.items.Len()
}

func (c *CachedClient) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func cached[T any](c *CachedClient, store *cache.TTLCache[response.Envelope[T]], key string, clone func(T) T, fetch func() response.Envelope[T]) response.Envelope[T] {
	if env, ok := store.Get(key); ok {
		return cloneEnvelope(env, clone)
	}

	generation := c.currentGeneration()
	env := fetch()
	if !env.Success {
		return env
	}

	c.mu.Lock()
	if c.generation == generation {
		store.Put(key, cloneEnvelope(env, clone))
	}
	c.mu.Unlock()
	return env
}

func cloneEnvelope[T any](env response.Envelope[T], clone func(T) T) response.Envelope[T] {
	if env.Data != nil {
		data := clone(*env.Data)
		env.Data = &data
	}
	if env.Errors != nil {
		errs := make(map[string][]string, len(env.Errors))
		for field, messages := range env.Errors {
			errs[field] = slices.Clone(messages)
		}
		env.Errors = errs
	}
	return env
}

func cloneProducts(products []models.Product) []models.Product {
	if products == nil {
		return nil
	}
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
