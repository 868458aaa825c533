package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/platform/externalapi/tinkoff"
)

// closedExchangeMark は取引所IDに含まれていたら除外する部分文字列です。
// 取引所側で取引停止中の銘柄を示します（大文字小文字は区別）。
const closedExchangeMark = "close"

// RefreshUsecase はプロバイダーから銘柄リストを取得し、
// カタログテーブルを丸ごと作り直すユースケースです。
type RefreshUsecase struct {
	provider MarketDataProvider
	shares   ShareRepository
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
func NewRefreshUsecase(provider MarketDataProvider, shares ShareRepository) *RefreshUsecase {
	return &RefreshUsecase{provider: provider, shares: shares}
}

// Refresh はカタログを1回更新します。
// 「base」ステータスで取得し、売買可能かつ取引所が停止中でない銘柄だけを残します。
// フィルタに使った取引フラグと取引所IDは永続化されません。
func (ru *RefreshUsecase) Refresh(ctx context.Context) error {
	listed, err := ru.provider.Shares(ctx, tinkoff.InstrumentStatusBase)
	if err != nil {
		return fmt.Errorf("fetch shares: %w", err)
	}

	kept := make([]entity.Share, 0, len(listed))
	for _, ls := range listed {
		if !tradable(ls) {
			continue
		}
		kept = append(kept, ls.Share)
	}

	if err := ru.shares.ReplaceAll(ctx, kept); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	slog.Info("catalog refreshed", "fetched", len(listed), "kept", len(kept))
	return nil
}

// tradable は銘柄がカタログに載せられる状態かを判定します。
func tradable(ls entity.ListedShare) bool {
	return ls.BuyAvailable &&
		ls.SellAvailable &&
		!strings.Contains(ls.Exchange, closedExchangeMark)
}
