package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/feature/fonds/usecase"
)

// CachingFundamentalsRepository decorates a FundamentalsRepository with Redis
// caching. Single-asset lookups and ranking pages are cached independently;
// an upsert invalidates both, keyed by the affected asset where possible.
type CachingFundamentalsRepository struct {
	inner     usecase.FundamentalsRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.FundamentalsRepository = (*CachingFundamentalsRepository)(nil)

// NewCachingFundamentalsRepository decorates a FundamentalsRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "fundamentals".
func NewCachingFundamentalsRepository(rdb *redis.Client, ttl time.Duration, inner usecase.FundamentalsRepository, namespace string) *CachingFundamentalsRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "fundamentals"
	}
	return &CachingFundamentalsRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

// Upsert writes through and invalidates the asset's entry plus all ranking pages.
func (c *CachingFundamentalsRepository) Upsert(ctx context.Context, f entity.Fundamentals) error {
	if err := c.inner.Upsert(ctx, f); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.assetKey(f.AssetUID)).Err()
	_ = deleteByPattern(ctx, c.rdb, c.namespace+":rank:*") // Best effort
	return nil
}

// FindByAssetUID retrieves a fundamentals row through the cache.
// Not-found results are not cached: the sentinel must keep flowing to callers.
func (c *CachingFundamentalsRepository) FindByAssetUID(ctx context.Context, assetUID string) (*entity.Fundamentals, error) {
	if c.rdb == nil {
		return c.inner.FindByAssetUID(ctx, assetUID)
	}

	key := c.assetKey(assetUID)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Fundamentals
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindByAssetUID(ctx, assetUID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// RankBySector retrieves one ranking page through the cache.
func (c *CachingFundamentalsRepository) RankBySector(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error) {
	key := fmt.Sprintf("%s:rank:%s:%s:%d:%d", c.namespace, safe(string(sector)), safe(string(kind)), limit, offset)
	return cachedCall(ctx, c.rdb, key, c.ttl, func() ([]entity.RankedShare, error) {
		return c.inner.RankBySector(ctx, sector, kind, limit, offset)
	})
}

func (c *CachingFundamentalsRepository) assetKey(assetUID string) string {
	return fmt.Sprintf("%s:asset:%s", c.namespace, safe(assetUID))
}
