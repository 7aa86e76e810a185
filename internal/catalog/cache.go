package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/frozen-toko/internal/obs"
)

const (
	cachePrefix  = "catalog:"
	listCacheKey = cachePrefix + "items"
)

// Cache wraps Redis helpers for JSON payloads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// DeletePrefix removes every key starting with prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// CachedSource is a cache-aside decorator over another Source. Concurrent misses for
// the same key share one upstream call.
type CachedSource struct {
	next  Source
	cache *Cache
	group singleflight.Group
}

// NewCachedSource wraps next with cache.
func NewCachedSource(next Source, cache *Cache) *CachedSource {
	return &CachedSource{next: next, cache: cache}
}

// ListItems implements Source.
func (s *CachedSource) ListItems(ctx context.Context) ([]Item, error) {
	var cached []Item
	if ok, err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && ok {
		obs.IncCatalogCache("hit")
		return cached, nil
	}
	obs.IncCatalogCache("miss")
	v, err, _ := s.group.Do(listCacheKey, func() (any, error) {
		items, err := s.next.ListItems(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, listCacheKey, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	items := v.([]Item)
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

// GetItem implements Source. Lookups that fail are not cached.
func (s *CachedSource) GetItem(ctx context.Context, id string) (Item, error) {
	key := itemCacheKey(id)
	var cached Item
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		obs.IncCatalogCache("hit")
		return cached, nil
	}
	obs.IncCatalogCache("miss")
	v, err, _ := s.group.Do(key, func() (any, error) {
		item, err := s.next.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, item)
		return item, nil
	})
	if err != nil {
		return Item{}, err
	}
	return v.(Item), nil
}

// Invalidate drops every cached catalog entry.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.DeletePrefix(ctx, cachePrefix)
}

func itemCacheKey(id string) string {
	return cachePrefix + "item:" + id
}
