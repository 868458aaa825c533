package usecase

import (
	"context"

	"fonds_backend/internal/feature/fonds/domain/entity"
)

const (
	// DefaultRankingLimit はランキングのデフォルト返却件数です。
	DefaultRankingLimit = 20
	// MaxRankingLimit はランキングの最大返却件数です。
	MaxRankingLimit = 100
)

// FondsUsecase は銘柄・指標の読み取り系ユースケースを実装します。
type FondsUsecase struct {
	shares       ShareRepository
	fundamentals FundamentalsRepository
	provider     MarketDataProvider
}

// NewFondsUsecase はFondsUsecaseの新しいインスタンスを生成します。
func NewFondsUsecase(shares ShareRepository, fundamentals FundamentalsRepository, provider MarketDataProvider) *FondsUsecase {
	return &FondsUsecase{shares: shares, fundamentals: fundamentals, provider: provider}
}

// Sectors はカタログに存在するセクターの一覧を返します。
func (fu *FondsUsecase) Sectors(ctx context.Context) ([]entity.Sector, error) {
	return fu.shares.Sectors(ctx)
}

// SharesBySector は指定セクターの銘柄一覧を返します。
// 未知のセクターは ErrUnknownSector になります。
func (fu *FondsUsecase) SharesBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
	if !sector.Valid() {
		return nil, ErrUnknownSector
	}
	return fu.shares.ListBySector(ctx, sector)
}

// FundamentalsByAsset は1assetの指標行を返します。
// 行が無い場合は ErrFundamentalsNotFound をそのまま返します。
func (fu *FondsUsecase) FundamentalsByAsset(ctx context.Context, assetUID string) (*entity.Fundamentals, error) {
	return fu.fundamentals.FindByAssetUID(ctx, assetUID)
}

// Search はティッカーまたは銘柄名で検索します。
// ヒットなしは空リストでありエラーではありません。
func (fu *FondsUsecase) Search(ctx context.Context, query string) ([]entity.Share, error) {
	if query == "" {
		return []entity.Share{}, nil
	}
	return fu.shares.Search(ctx, query)
}

// TopBySector はセクター×指標のランキングをページネーション付きで返します。
// 未知の指標は UnknownRatioError になります（空リストでは返しません）。
func (fu *FondsUsecase) TopBySector(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error) {
	if !sector.Valid() {
		return nil, ErrUnknownSector
	}
	if _, ok := entity.RatioRules[kind]; !ok {
		return nil, &UnknownRatioError{Kind: kind}
	}
	if limit <= 0 || limit > MaxRankingLimit {
		limit = DefaultRankingLimit
	}
	if offset < 0 {
		offset = 0
	}
	return fu.fundamentals.RankBySector(ctx, sector, kind, limit, offset)
}

// Positions は口座のポジションを取得し、カタログの銘柄情報で補完します。
func (fu *FondsUsecase) Positions(ctx context.Context, accountID string) ([]entity.EnrichedPosition, error) {
	positions, err := fu.provider.Positions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return []entity.EnrichedPosition{}, nil
	}

	figis := make([]string, 0, len(positions))
	for _, p := range positions {
		figis = append(figis, p.Figi)
	}
	shares, err := fu.shares.ListByFigis(ctx, figis)
	if err != nil {
		return nil, err
	}
	byFigi := make(map[string]entity.Share, len(shares))
	for _, s := range shares {
		byFigi[s.Figi] = s
	}

	out := make([]entity.EnrichedPosition, 0, len(positions))
	for _, p := range positions {
		ep := entity.EnrichedPosition{Position: p}
		if s, ok := byFigi[p.Figi]; ok {
			ep.Ticker = s.Ticker
			ep.Name = s.Name
			ep.Sector = s.Sector
		}
		out = append(out, ep)
	}
	return out, nil
}
