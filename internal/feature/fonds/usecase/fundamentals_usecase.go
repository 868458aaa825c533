package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/platform/externalapi/tinkoff"
)

const (
	// maxFetchAttempts はレートリミット時の再試行を含めた最大試行回数です。
	maxFetchAttempts = 3
	// resetMargin はプロバイダー指定のリセット時刻に上乗せする安全マージンです。
	resetMargin = 500 * time.Millisecond
)

// FundamentalsUsecase はカタログの全assetについて財務指標を取得し、
// asset uidをキーに冪等アップサートするユースケースです。
type FundamentalsUsecase struct {
	provider     MarketDataProvider
	shares       ShareRepository
	fundamentals FundamentalsRepository

	// sleep はテストから差し替えられるよう関数フィールドにしています。
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewFundamentalsUsecase は新しい FundamentalsUsecase を作成します。
func NewFundamentalsUsecase(provider MarketDataProvider, shares ShareRepository, fundamentals FundamentalsRepository) *FundamentalsUsecase {
	return &FundamentalsUsecase{
		provider:     provider,
		shares:       shares,
		fundamentals: fundamentals,
		sleep:        sleepCtx,
		now:          time.Now,
	}
}

// Fetch は1つのasset uidの財務指標を取得します。
// 戻り値がnilの場合は「このassetは今サイクルではスキップ」を意味し、エラーにはなりません。
//
// リトライ方針:
//   - レートリミット: プロバイダー指定のリセット時間+マージンだけ待機して再試行。
//     合計 maxFetchAttempts 回で打ち切り、ログを残してスキップ。
//   - not found / 空応答: 即スキップ（再試行しない）。
//   - その他のエラー: ログを残してスキップ（再試行しない）。
func (fu *FundamentalsUsecase) Fetch(ctx context.Context, assetUID string) (*entity.Fundamentals, error) {
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		records, err := fu.provider.AssetFundamentals(ctx, []string{assetUID})
		if err == nil {
			if len(records) == 0 {
				return nil, nil
			}
			return &records[0], nil
		}

		var rateErr *tinkoff.RateLimitError
		switch {
		case errors.As(err, &rateErr):
			if attempt == maxFetchAttempts-1 {
				// 最後の試行だった。これ以上は待たない。
				slog.Warn("fundamentals fetch gave up after rate limits",
					"asset_uid", assetUID, "attempts", maxFetchAttempts)
				return nil, nil
			}
			wait := rateErr.ResetAfter + resetMargin
			slog.Info("rate limited, backing off",
				"asset_uid", assetUID, "wait", wait, "attempt", attempt+1)
			if err := fu.sleep(ctx, wait); err != nil {
				return nil, err
			}
		case errors.Is(err, tinkoff.ErrNotFound):
			return nil, nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// 呼び出し全体の中断はスキップではなく伝播させる
			return nil, err
		default:
			slog.Error("fundamentals fetch failed", "asset_uid", assetUID, "error", err)
			return nil, nil
		}
	}
	return nil, nil
}

// UpsertAll はカタログ中の全asset uidを順に処理します。
// プロバイダーのクォータがあるため並列化はしません。
// assetごとに独立してコミットされるため、途中終了しても再実行すれば冪等に回復します。
func (fu *FundamentalsUsecase) UpsertAll(ctx context.Context) error {
	assetUIDs, err := fu.shares.DistinctAssetUIDs(ctx)
	if err != nil {
		return err
	}

	var written, skipped int
	for _, uid := range assetUIDs {
		record, err := fu.Fetch(ctx, uid)
		if err != nil {
			return err
		}
		if record == nil {
			skipped++
			continue
		}

		record.UpdatedAt = fu.now().UTC()
		if err := fu.fundamentals.Upsert(ctx, *record); err != nil {
			// ストアのエラーは1件で止めず、記録して次のassetへ進む
			slog.Error("fundamentals upsert failed", "asset_uid", uid, "error", err)
			skipped++
			continue
		}
		written++
	}

	slog.Info("fundamentals upsert finished",
		"assets", len(assetUIDs), "written", written, "skipped", skipped)
	return nil
}

// sleepCtx はコンテキストのキャンセルを尊重して待機します。
// 呼び出し元のゴルーチンだけを停止させ、他のリクエストは妨げません。
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
