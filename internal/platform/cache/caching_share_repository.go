// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/feature/fonds/usecase"
)

// DefaultTTL は読み取り系エンドポイントのキャッシュ保持期間です。
const DefaultTTL = 30 * time.Second

// CachingShareRepository decorates a ShareRepository with Redis caching.
// Reads are cached under keys derived from the request signature; writes pass
// through and invalidate the whole namespace, since a catalog refresh
// rebuilds every row anyway.
type CachingShareRepository struct {
	inner     usecase.ShareRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ShareRepository = (*CachingShareRepository)(nil)

// NewCachingShareRepository decorates a ShareRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "shares".
func NewCachingShareRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ShareRepository, namespace string) *CachingShareRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "shares"
	}
	return &CachingShareRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

// ReplaceAll rebuilds the catalog and drops every cached read.
func (c *CachingShareRepository) ReplaceAll(ctx context.Context, shares []entity.Share) error {
	if err := c.inner.ReplaceAll(ctx, shares); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = deleteByPattern(ctx, c.rdb, c.namespace+":*") // Best effort
	}
	return nil
}

// ListBySector retrieves shares, checking cache first then falling back to the database.
func (c *CachingShareRepository) ListBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
	key := fmt.Sprintf("%s:by_sector:%s", c.namespace, safe(string(sector)))
	return cachedCall(ctx, c.rdb, key, c.ttl, func() ([]entity.Share, error) {
		return c.inner.ListBySector(ctx, sector)
	})
}

// Sectors retrieves the distinct sector list through the cache.
func (c *CachingShareRepository) Sectors(ctx context.Context) ([]entity.Sector, error) {
	key := c.namespace + ":sectors"
	return cachedCall(ctx, c.rdb, key, c.ttl, func() ([]entity.Sector, error) {
		return c.inner.Sectors(ctx)
	})
}

// DistinctAssetUIDs bypasses the cache: it is only called by the upsert job.
func (c *CachingShareRepository) DistinctAssetUIDs(ctx context.Context) ([]string, error) {
	return c.inner.DistinctAssetUIDs(ctx)
}

// Search retrieves matches through the cache.
func (c *CachingShareRepository) Search(ctx context.Context, query string) ([]entity.Share, error) {
	key := fmt.Sprintf("%s:search:%s", c.namespace, safe(query))
	return cachedCall(ctx, c.rdb, key, c.ttl, func() ([]entity.Share, error) {
		return c.inner.Search(ctx, query)
	})
}

// ListByFigis retrieves shares through the cache.
func (c *CachingShareRepository) ListByFigis(ctx context.Context, figis []string) ([]entity.Share, error) {
	key := fmt.Sprintf("%s:by_figis:%s", c.namespace, safe(strings.Join(figis, ",")))
	return cachedCall(ctx, c.rdb, key, c.ttl, func() ([]entity.Share, error) {
		return c.inner.ListByFigis(ctx, figis)
	})
}

// cachedCall は読み取りをキャッシュ経由で実行する共通処理です。
// Redis未設定時は素通しし、壊れたエントリは削除してDBへフォールバックします。
func cachedCall[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if rdb == nil {
		return load()
	}

	if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = rdb.Del(ctx, key).Err()
	}

	out, err := load()
	if err != nil {
		return out, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = rdb.Set(ctx, key, b, ttl).Err() // Best effort
	}
	return out, nil
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
