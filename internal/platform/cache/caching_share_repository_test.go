package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"fonds_backend/internal/feature/fonds/domain/entity"
)

// mockShareRepository はテスト用のShareRepositoryモック実装です。
type mockShareRepository struct {
	replaceAllFn        func(ctx context.Context, shares []entity.Share) error
	listBySectorFn      func(ctx context.Context, sector entity.Sector) ([]entity.Share, error)
	sectorsFn           func(ctx context.Context) ([]entity.Sector, error)
	distinctAssetUIDsFn func(ctx context.Context) ([]string, error)
	searchFn            func(ctx context.Context, query string) ([]entity.Share, error)
	listByFigisFn       func(ctx context.Context, figis []string) ([]entity.Share, error)
}

func (m *mockShareRepository) ReplaceAll(ctx context.Context, shares []entity.Share) error {
	if m.replaceAllFn != nil {
		return m.replaceAllFn(ctx, shares)
	}
	return nil
}

func (m *mockShareRepository) ListBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
	if m.listBySectorFn != nil {
		return m.listBySectorFn(ctx, sector)
	}
	return nil, nil
}

func (m *mockShareRepository) Sectors(ctx context.Context) ([]entity.Sector, error) {
	if m.sectorsFn != nil {
		return m.sectorsFn(ctx)
	}
	return nil, nil
}

func (m *mockShareRepository) DistinctAssetUIDs(ctx context.Context) ([]string, error) {
	if m.distinctAssetUIDsFn != nil {
		return m.distinctAssetUIDsFn(ctx)
	}
	return nil, nil
}

func (m *mockShareRepository) Search(ctx context.Context, query string) ([]entity.Share, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockShareRepository) ListByFigis(ctx context.Context, figis []string) ([]entity.Share, error) {
	if m.listByFigisFn != nil {
		return m.listByFigisFn(ctx, figis)
	}
	return nil, nil
}

// TestNewCachingShareRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingShareRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       DefaultTTL,
			expectedNamespace: "shares",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       DefaultTTL,
			expectedNamespace: "shares",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingShareRepository(nil, tt.ttl, &mockShareRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingShareRepository_ListBySector_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingShareRepository_ListBySector_NilRedis(t *testing.T) {
	t.Parallel()

	expectedShares := []entity.Share{
		{Ticker: "SBER", Name: "Sberbank", Sector: entity.SectorFinancial},
	}

	inner := &mockShareRepository{
		listBySectorFn: func(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
			return expectedShares, nil
		},
	}

	repo := NewCachingShareRepository(nil, DefaultTTL, inner, "shares")

	shares, err := repo.ListBySector(context.Background(), entity.SectorFinancial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shares) != len(expectedShares) {
		t.Errorf("expected %d shares, got %d", len(expectedShares), len(shares))
	}
}

// TestCachingShareRepository_ListBySector_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingShareRepository_ListBySector_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedShares := []entity.Share{
		{Ticker: "GAZP", Name: "Gazprom", Sector: entity.SectorEnergy},
	}
	cachedJSON, _ := json.Marshal(cachedShares)

	mock.ExpectGet("shares:by_sector:energy").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockShareRepository{
		listBySectorFn: func(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	shares, err := repo.ListBySector(context.Background(), entity.SectorEnergy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(shares) != 1 {
		t.Errorf("expected 1 share, got %d", len(shares))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingShareRepository_ListBySector_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingShareRepository_ListBySector_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedShares := []entity.Share{
		{Ticker: "GAZP", Name: "Gazprom", Sector: entity.SectorEnergy},
	}
	expectedJSON, _ := json.Marshal(expectedShares)

	// Cache miss
	mock.ExpectGet("shares:by_sector:energy").RedisNil()
	// Set cache after fetching from inner
	mock.ExpectSet("shares:by_sector:energy", expectedJSON, DefaultTTL).SetVal("OK")

	inner := &mockShareRepository{
		listBySectorFn: func(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
			return expectedShares, nil
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	shares, err := repo.ListBySector(context.Background(), entity.SectorEnergy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shares) != 1 {
		t.Errorf("expected 1 share, got %d", len(shares))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingShareRepository_ListBySector_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingShareRepository_ListBySector_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")

	mock.ExpectGet("shares:by_sector:energy").RedisNil()

	inner := &mockShareRepository{
		listBySectorFn: func(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	_, err := repo.ListBySector(context.Background(), entity.SectorEnergy)

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingShareRepository_ListBySector_CorruptedCache は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingShareRepository_ListBySector_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedShares := []entity.Share{
		{Ticker: "GAZP", Name: "Gazprom", Sector: entity.SectorEnergy},
	}
	expectedJSON, _ := json.Marshal(expectedShares)

	// Return invalid JSON from cache
	mock.ExpectGet("shares:by_sector:energy").SetVal("invalid json")
	// Delete corrupted cache
	mock.ExpectDel("shares:by_sector:energy").SetVal(1)
	// Set new cache after fetching from inner
	mock.ExpectSet("shares:by_sector:energy", expectedJSON, DefaultTTL).SetVal("OK")

	inner := &mockShareRepository{
		listBySectorFn: func(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
			return expectedShares, nil
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	shares, err := repo.ListBySector(context.Background(), entity.SectorEnergy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shares) != 1 {
		t.Errorf("expected 1 share, got %d", len(shares))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingShareRepository_Search_KeyEscaping は検索クエリ中の空白やコロンがキーで置換されることを検証します。
func TestCachingShareRepository_Search_KeyEscaping(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedShares := []entity.Share{{Ticker: "SBER"}}
	cachedJSON, _ := json.Marshal(cachedShares)

	mock.ExpectGet("shares:search:sber_corp").SetVal(string(cachedJSON))

	repo := NewCachingShareRepository(rdb, DefaultTTL, &mockShareRepository{}, "shares")
	shares, err := repo.Search(context.Background(), "sber corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shares) != 1 {
		t.Errorf("expected 1 share, got %d", len(shares))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingShareRepository_DistinctAssetUIDs_BypassesCache はDistinctAssetUIDsがキャッシュを経由しないことを検証します。
func TestCachingShareRepository_DistinctAssetUIDs_BypassesCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	innerCalled := false
	inner := &mockShareRepository{
		distinctAssetUIDsFn: func(ctx context.Context) ([]string, error) {
			innerCalled = true
			return []string{"asset-1"}, nil
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	uids, err := repo.DistinctAssetUIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !innerCalled {
		t.Error("expected inner repository to be called")
	}
	if len(uids) != 1 {
		t.Errorf("expected 1 uid, got %d", len(uids))
	}
	// No Redis command should have been issued
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingShareRepository_ReplaceAll_NilRedis はRedisがnilの場合にReplaceAllが内部リポジトリのみを呼び出すことを検証します。
func TestCachingShareRepository_ReplaceAll_NilRedis(t *testing.T) {
	t.Parallel()

	innerCalled := false
	inner := &mockShareRepository{
		replaceAllFn: func(ctx context.Context, shares []entity.Share) error {
			innerCalled = true
			return nil
		},
	}

	repo := NewCachingShareRepository(nil, DefaultTTL, inner, "shares")
	err := repo.ReplaceAll(context.Background(), []entity.Share{{Ticker: "SBER"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !innerCalled {
		t.Error("expected inner repository to be called")
	}
}

// TestCachingShareRepository_ReplaceAll_InnerError は内部リポジトリのエラー時にキャッシュ削除が行われないことを検証します。
func TestCachingShareRepository_ReplaceAll_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("replace error")
	inner := &mockShareRepository{
		replaceAllFn: func(ctx context.Context, shares []entity.Share) error {
			return expectedErr
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	err := repo.ReplaceAll(context.Background(), []entity.Share{{Ticker: "SBER"}})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingShareRepository_ReplaceAll_CacheInvalidation はReplaceAll後に名前空間全体のキャッシュが無効化されることを検証します。
func TestCachingShareRepository_ReplaceAll_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	staleKeys := []string{"shares:sectors", "shares:by_sector:energy"}
	mock.ExpectScan(0, "shares:*", 200).SetVal(staleKeys, 0)
	mock.ExpectDel(staleKeys...).SetVal(int64(len(staleKeys)))

	inner := &mockShareRepository{
		replaceAllFn: func(ctx context.Context, shares []entity.Share) error {
			return nil
		},
	}

	repo := NewCachingShareRepository(rdb, DefaultTTL, inner, "shares")
	err := repo.ReplaceAll(context.Background(), []entity.Share{{Ticker: "SBER"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}
