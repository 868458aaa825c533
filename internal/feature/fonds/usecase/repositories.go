package usecase

import (
	"context"

	"fonds_backend/internal/feature/fonds/domain/entity"
)

// ShareRepository はカタログ（shares）テーブルの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ShareRepository interface {
	// ReplaceAll はカタログ全体を削除し、渡された銘柄で作り直します。
	// 削除と全バッチのインサートは1トランザクションで行われます。
	ReplaceAll(ctx context.Context, shares []entity.Share) error

	// ListBySector は指定セクターの銘柄を返します。
	ListBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error)

	// Sectors はカタログに存在するセクターの一覧を返します。
	Sectors(ctx context.Context) ([]entity.Sector, error)

	// DistinctAssetUIDs はカタログ中の重複を除いたasset uidを返します。
	DistinctAssetUIDs(ctx context.Context) ([]string, error)

	// Search はティッカーまたは銘柄名の部分一致で検索します。
	Search(ctx context.Context, query string) ([]entity.Share, error)

	// ListByFigis はfigiのリストに一致する銘柄を返します。
	ListByFigis(ctx context.Context, figis []string) ([]entity.Share, error)
}

// FundamentalsRepository は財務指標テーブルの永続化層を抽象化します。
type FundamentalsRepository interface {
	// Upsert はasset uidをキーに1行を挿入または全指標上書きします。
	Upsert(ctx context.Context, f entity.Fundamentals) error

	// FindByAssetUID は指標行を1件取得します。
	// 行が存在しない場合は ErrFundamentalsNotFound を返します。
	FindByAssetUID(ctx context.Context, assetUID string) (*entity.Fundamentals, error)

	// RankBySector はカタログと指標をasset uidで結合し、指標別のルールで
	// フィルタ・ソートしたランキングをページネーション付きで返します。
	RankBySector(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error)
}

// MarketDataProvider は外部プロバイダーの呼び出しを抽象化します。
type MarketDataProvider interface {
	// Shares は指定ステータスの銘柄リストを取得します。
	Shares(ctx context.Context, status string) ([]entity.ListedShare, error)

	// AssetFundamentals はasset uid群の財務指標を取得します。
	AssetFundamentals(ctx context.Context, assetUIDs []string) ([]entity.Fundamentals, error)

	// Positions は口座の証券ポジションを取得します。
	Positions(ctx context.Context, accountID string) ([]entity.Position, error)
}
