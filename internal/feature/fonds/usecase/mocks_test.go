package usecase

import (
	"context"
	"errors"

	"fonds_backend/internal/feature/fonds/domain/entity"
)

// mockMarketDataProvider is a mock implementation of the MarketDataProvider interface.
type mockMarketDataProvider struct {
	SharesFunc            func(ctx context.Context, status string) ([]entity.ListedShare, error)
	SharesCalls           int
	AssetFundamentalsFunc func(ctx context.Context, assetUIDs []string) ([]entity.Fundamentals, error)
	AssetFundamentalsCalls int
	PositionsFunc         func(ctx context.Context, accountID string) ([]entity.Position, error)
	PositionsCalls        int
}

func (m *mockMarketDataProvider) Shares(ctx context.Context, status string) ([]entity.ListedShare, error) {
	m.SharesCalls++
	if m.SharesFunc != nil {
		return m.SharesFunc(ctx, status)
	}
	return nil, errors.New("SharesFunc is not implemented")
}

func (m *mockMarketDataProvider) AssetFundamentals(ctx context.Context, assetUIDs []string) ([]entity.Fundamentals, error) {
	m.AssetFundamentalsCalls++
	if m.AssetFundamentalsFunc != nil {
		return m.AssetFundamentalsFunc(ctx, assetUIDs)
	}
	return nil, errors.New("AssetFundamentalsFunc is not implemented")
}

func (m *mockMarketDataProvider) Positions(ctx context.Context, accountID string) ([]entity.Position, error) {
	m.PositionsCalls++
	if m.PositionsFunc != nil {
		return m.PositionsFunc(ctx, accountID)
	}
	return nil, errors.New("PositionsFunc is not implemented")
}

// mockShareRepository is a mock implementation of the ShareRepository interface.
type mockShareRepository struct {
	ReplaceAllFunc         func(ctx context.Context, shares []entity.Share) error
	ReplaceAllCalls        int
	ListBySectorFunc       func(ctx context.Context, sector entity.Sector) ([]entity.Share, error)
	SectorsFunc            func(ctx context.Context) ([]entity.Sector, error)
	DistinctAssetUIDsFunc  func(ctx context.Context) ([]string, error)
	SearchFunc             func(ctx context.Context, query string) ([]entity.Share, error)
	SearchCalls            int
	ListByFigisFunc        func(ctx context.Context, figis []string) ([]entity.Share, error)
}

func (m *mockShareRepository) ReplaceAll(ctx context.Context, shares []entity.Share) error {
	m.ReplaceAllCalls++
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, shares)
	}
	return errors.New("ReplaceAllFunc is not implemented")
}

func (m *mockShareRepository) ListBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
	if m.ListBySectorFunc != nil {
		return m.ListBySectorFunc(ctx, sector)
	}
	return nil, errors.New("ListBySectorFunc is not implemented")
}

func (m *mockShareRepository) Sectors(ctx context.Context) ([]entity.Sector, error) {
	if m.SectorsFunc != nil {
		return m.SectorsFunc(ctx)
	}
	return nil, errors.New("SectorsFunc is not implemented")
}

func (m *mockShareRepository) DistinctAssetUIDs(ctx context.Context) ([]string, error) {
	if m.DistinctAssetUIDsFunc != nil {
		return m.DistinctAssetUIDsFunc(ctx)
	}
	return nil, errors.New("DistinctAssetUIDsFunc is not implemented")
}

func (m *mockShareRepository) Search(ctx context.Context, query string) ([]entity.Share, error) {
	m.SearchCalls++
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, errors.New("SearchFunc is not implemented")
}

func (m *mockShareRepository) ListByFigis(ctx context.Context, figis []string) ([]entity.Share, error) {
	if m.ListByFigisFunc != nil {
		return m.ListByFigisFunc(ctx, figis)
	}
	return nil, errors.New("ListByFigisFunc is not implemented")
}

// mockFundamentalsRepository is a mock implementation of the FundamentalsRepository interface.
type mockFundamentalsRepository struct {
	UpsertFunc        func(ctx context.Context, f entity.Fundamentals) error
	UpsertCalls       int
	FindByAssetUIDFunc func(ctx context.Context, assetUID string) (*entity.Fundamentals, error)
	RankBySectorFunc  func(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error)
}

func (m *mockFundamentalsRepository) Upsert(ctx context.Context, f entity.Fundamentals) error {
	m.UpsertCalls++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, f)
	}
	return errors.New("UpsertFunc is not implemented")
}

func (m *mockFundamentalsRepository) FindByAssetUID(ctx context.Context, assetUID string) (*entity.Fundamentals, error) {
	if m.FindByAssetUIDFunc != nil {
		return m.FindByAssetUIDFunc(ctx, assetUID)
	}
	return nil, errors.New("FindByAssetUIDFunc is not implemented")
}

func (m *mockFundamentalsRepository) RankBySector(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error) {
	if m.RankBySectorFunc != nil {
		return m.RankBySectorFunc(ctx, sector, kind, limit, offset)
	}
	return nil, errors.New("RankBySectorFunc is not implemented")
}
