package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/feature/fonds/usecase"
)

func floatPtr(v float64) *float64 { return &v }

func testFundamentals(assetUID string, pe float64) entity.Fundamentals {
	return entity.Fundamentals{
		AssetUID:  assetUID,
		PE:        floatPtr(pe),
		PS:        floatPtr(0.5),
		ROE:       floatPtr(12),
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFundamentalsPostgres_Upsert_Insert(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testFundamentals("asset-1", 10)))

	got, err := repo.FindByAssetUID(ctx, "asset-1")
	require.NoError(t, err)
	require.NotNil(t, got.PE)
	assert.Equal(t, 10.0, *got.PE)
	assert.Nil(t, got.PB, "unreported ratios stay NULL")
}

func TestFundamentalsPostgres_Upsert_Idempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testFundamentals("asset-1", 10)))

	// 同じキーで再実行しても行は増えず、値が上書きされる
	updated := testFundamentals("asset-1", 20)
	updated.PB = floatPtr(0.8)
	require.NoError(t, repo.Upsert(ctx, updated))

	var count int64
	require.NoError(t, db.Model(&FundamentalsModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.FindByAssetUID(ctx, "asset-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, *got.PE)
	require.NotNil(t, got.PB)
	assert.Equal(t, 0.8, *got.PB)
}

func TestFundamentalsPostgres_Upsert_OverwritesWithNull(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testFundamentals("asset-1", 10)))

	// プロバイダーが指標を返さなくなったらNULLで上書きされる
	cleared := entity.Fundamentals{AssetUID: "asset-1", UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, cleared))

	got, err := repo.FindByAssetUID(ctx, "asset-1")
	require.NoError(t, err)
	assert.Nil(t, got.PE)
	assert.Nil(t, got.ROE)
}

func TestFundamentalsPostgres_FindByAssetUID_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)

	_, err := repo.FindByAssetUID(context.Background(), "missing")
	assert.ErrorIs(t, err, usecase.ErrFundamentalsNotFound)
}

// seedRanking はランキングテスト用のカタログと指標を投入します。
func seedRanking(t *testing.T, repo *fundamentalsPostgres, shares *sharePostgres) {
	t.Helper()
	ctx := context.Background()

	catalog := []entity.Share{
		{UID: "u1", Ticker: "AAA", Figi: "f1", Name: "A", ClassCode: "TQBR", AssetUID: "a1", Sector: entity.SectorIT},
		{UID: "u2", Ticker: "BBB", Figi: "f2", Name: "B", ClassCode: "TQBR", AssetUID: "a2", Sector: entity.SectorIT},
		{UID: "u3", Ticker: "CCC", Figi: "f3", Name: "C", ClassCode: "TQBR", AssetUID: "a3", Sector: entity.SectorIT},
		{UID: "u4", Ticker: "DDD", Figi: "f4", Name: "D", ClassCode: "TQBR", AssetUID: "a4", Sector: entity.SectorEnergy},
	}
	require.NoError(t, shares.ReplaceAll(ctx, catalog))

	rows := []entity.Fundamentals{
		{AssetUID: "a1", PE: floatPtr(15), PS: floatPtr(0.4), ROE: floatPtr(8), UpdatedAt: time.Now().UTC()},
		{AssetUID: "a2", PE: floatPtr(5), PS: floatPtr(1.5), ROE: floatPtr(25), UpdatedAt: time.Now().UTC()},
		{AssetUID: "a3", PE: floatPtr(-3), PS: floatPtr(0.9), ROE: floatPtr(12), UpdatedAt: time.Now().UTC()},
		{AssetUID: "a4", PE: floatPtr(2), PS: floatPtr(0.1), ROE: floatPtr(30), UpdatedAt: time.Now().UTC()},
	}
	for _, f := range rows {
		require.NoError(t, repo.Upsert(ctx, f))
	}
}

func TestFundamentalsPostgres_RankBySector_PE(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	shares := NewShareRepository(db)
	seedRanking(t, repo, shares)

	got, err := repo.RankBySector(context.Background(), entity.SectorIT, entity.RatioPE, 20, 0)
	require.NoError(t, err)

	// PEは正のみ、昇順。負のPE(a3)と別セクター(a4)は除外される
	require.Len(t, got, 2)
	assert.Equal(t, "BBB", got[0].Ticker)
	assert.Equal(t, 5.0, got[0].Value)
	assert.Equal(t, "AAA", got[1].Ticker)
	assert.Equal(t, 15.0, got[1].Value)
}

func TestFundamentalsPostgres_RankBySector_PSWindow(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	shares := NewShareRepository(db)
	seedRanking(t, repo, shares)

	got, err := repo.RankBySector(context.Background(), entity.SectorIT, entity.RatioPS, 20, 0)
	require.NoError(t, err)

	// PSは(0,1)の開区間のみ。1.5のa2は除外される
	require.Len(t, got, 2)
	assert.Equal(t, "AAA", got[0].Ticker)
	assert.Equal(t, "CCC", got[1].Ticker)
}

func TestFundamentalsPostgres_RankBySector_ROEDescending(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	shares := NewShareRepository(db)
	seedRanking(t, repo, shares)

	got, err := repo.RankBySector(context.Background(), entity.SectorIT, entity.RatioROE, 20, 0)
	require.NoError(t, err)

	// ROEは高い順
	require.Len(t, got, 3)
	assert.Equal(t, 25.0, got[0].Value)
	assert.Equal(t, 12.0, got[1].Value)
	assert.Equal(t, 8.0, got[2].Value)
}

func TestFundamentalsPostgres_RankBySector_Pagination(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	shares := NewShareRepository(db)
	seedRanking(t, repo, shares)

	page1, err := repo.RankBySector(context.Background(), entity.SectorIT, entity.RatioROE, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repo.RankBySector(context.Background(), entity.SectorIT, entity.RatioROE, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, 8.0, page2[0].Value)
}

func TestFundamentalsPostgres_RankBySector_SharedAsset(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)
	shares := NewShareRepository(db)
	ctx := context.Background()

	// 1社(asset)に2銘柄がぶら下がる場合、結合で両方の行が出る
	catalog := []entity.Share{
		{UID: "u1", Ticker: "SBER", Figi: "f1", Name: "Sberbank", ClassCode: "TQBR", AssetUID: "a1", Sector: entity.SectorFinancial},
		{UID: "u2", Ticker: "SBERP", Figi: "f2", Name: "Sberbank pref", ClassCode: "TQBR", AssetUID: "a1", Sector: entity.SectorFinancial},
	}
	require.NoError(t, shares.ReplaceAll(ctx, catalog))
	require.NoError(t, repo.Upsert(ctx, testFundamentals("a1", 4)))

	got, err := repo.RankBySector(ctx, entity.SectorFinancial, entity.RatioPE, 20, 0)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, got[0].Value, got[1].Value, "both listings share one fundamentals row")
}

func TestFundamentalsPostgres_RankBySector_UnknownRatio(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewFundamentalsRepository(db)

	_, err := repo.RankBySector(context.Background(), entity.SectorIT, entity.RatioKind("magic"), 20, 0)

	var unknownErr *usecase.UnknownRatioError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, entity.RatioKind("magic"), unknownErr.Kind)
}
