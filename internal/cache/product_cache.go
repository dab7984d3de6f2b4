package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/models"
)

// ErrCacheMiss is returned when no product payload is cached.
var ErrCacheMiss = errors.New("CACHE_MISS")

// Store is the key-value subset of RedisClient used by ProductCache.
type Store interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// cachedProduct is the serialized cache entry.
type cachedProduct struct {
	Product  *models.Product `json:"product"`
	CachedAt time.Time       `json:"cachedAt"`
}

// ProductCache caches full product snapshots (types, options, images and
// variations) so product pages avoid the nested catalog queries.
type ProductCache struct {
	store Store
	ttl   time.Duration
}

// NewProductCache creates a new ProductCache.
func NewProductCache(store Store, ttl time.Duration) *ProductCache {
	return &ProductCache{store: store, ttl: ttl}
}

// keyBySlug returns the primary key of a product snapshot.
func (c *ProductCache) keyBySlug(slug string) string {
	return fmt.Sprintf("catalog:product:slug:%s", slug)
}

// keyByID returns the secondary key pointing to the slug.
func (c *ProductCache) keyByID(id int) string {
	return fmt.Sprintf("catalog:product:id:%d", id)
}

// Set stores a product under its slug, plus an id -> slug pointer.
func (c *ProductCache) Set(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(cachedProduct{Product: product, CachedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := c.store.Set(ctx, c.keyBySlug(product.Slug), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to set product key: %w", err)
	}
	if err := c.store.Set(ctx, c.keyByID(product.ID), product.Slug, c.ttl); err != nil {
		return fmt.Errorf("failed to set id key: %w", err)
	}
	return nil
}

// GetBySlug returns the cached product or ErrCacheMiss.
func (c *ProductCache) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	raw, err := c.store.Get(ctx, c.keyBySlug(slug))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var entry cachedProduct
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Product == nil {
		// Unreadable entries are evicted and treated as a miss.
		log.Warn().Err(err).Str("slug", slug).Msg("Evicting unreadable product cache entry")
		if derr := c.store.Delete(ctx, c.keyBySlug(slug)); derr != nil {
			return nil, fmt.Errorf("failed to evict product key: %w", derr)
		}
		return nil, ErrCacheMiss
	}
	return entry.Product, nil
}

// GetByID resolves the id pointer, then the snapshot.
func (c *ProductCache) GetByID(ctx context.Context, id int) (*models.Product, error) {
	slug, err := c.store.Get(ctx, c.keyByID(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return c.GetBySlug(ctx, slug)
}
