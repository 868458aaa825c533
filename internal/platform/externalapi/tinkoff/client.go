package tinkoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/platform/externalapi/tinkoff/dto"
)

// gRPC status codes the REST gateway mirrors in error payloads.
const (
	grpcNotFound          = 5
	grpcResourceExhausted = 8
)

// InstrumentStatusBase は「取引可能とみなされる銘柄」のステータスフィルタです。
// 厳密にアクティブでない銘柄も含むため、ローカルでの絞り込みが前提です。
const InstrumentStatusBase = "INSTRUMENT_STATUS_BASE"

// Client calls the invest REST API. All methods go through a client-side
// rate limiter so a tight loop cannot burn the per-minute quota by itself.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	perMinute := cfg.CallsPerMinute
	if perMinute <= 0 {
		perMinute = 50
	}
	return &Client{
		cfg:    cfg,
		client: client,
		// 61秒で割るのは分境界ちょうどでのクォータ超過を避けるためです。
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/61.0), 1),
	}
}

// Shares はプロバイダーから全銘柄リストを取得します。
// 取引フラグと取引所IDは後段のフィルタ用で、永続化はされません。
func (c *Client) Shares(ctx context.Context, status string) ([]entity.ListedShare, error) {
	if status == "" {
		status = InstrumentStatusBase
	}

	var body dto.SharesResponse
	err := c.post(ctx, "tinkoff.public.invest.api.contract.v1.InstrumentsService/Shares",
		dto.SharesRequest{InstrumentStatus: status}, &body)
	if err != nil {
		return nil, err
	}

	shares := make([]entity.ListedShare, 0, len(body.Instruments))
	for _, it := range body.Instruments {
		sector := entity.Sector(it.Sector)
		if !sector.Valid() {
			sector = entity.SectorOther
		}
		shares = append(shares, entity.ListedShare{
			Share: entity.Share{
				Ticker:    it.Ticker,
				Figi:      it.Figi,
				Name:      it.Name,
				ClassCode: it.ClassCode,
				UID:       it.UID,
				AssetUID:  it.AssetUID,
				Sector:    sector,
			},
			Exchange:      it.Exchange,
			BuyAvailable:  it.BuyAvailableFlag,
			SellAvailable: it.SellAvailableFlag,
		})
	}
	return shares, nil
}

// AssetFundamentals は指定されたasset uid群の財務指標を取得します。
// プロバイダーがデータを持たない場合は空のスライスを返します（エラーではない）。
func (c *Client) AssetFundamentals(ctx context.Context, assetUIDs []string) ([]entity.Fundamentals, error) {
	var body dto.FundamentalsResponse
	err := c.post(ctx, "tinkoff.public.invest.api.contract.v1.InstrumentsService/GetAssetFundamentals",
		dto.FundamentalsRequest{Assets: assetUIDs}, &body)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Fundamentals, 0, len(body.Fundamentals))
	for _, f := range body.Fundamentals {
		out = append(out, entity.Fundamentals{
			AssetUID:     f.AssetUID,
			PE:           f.PriceToEarningsTTM,
			PS:           f.PriceToSalesTTM,
			PB:           f.PriceToBookTTM,
			EVToEBITDA:   f.EVToEBITDAMRQ,
			ROE:          f.ROE,
			DebtToEquity: f.TotalDebtToEquityMRQ,
		})
	}
	return out, nil
}

// Positions は口座の証券ポジションを取得します。
// すべてのポジションを処理し、asset解決用のinstrument uidを含めて返します。
func (c *Client) Positions(ctx context.Context, accountID string) ([]entity.Position, error) {
	var body dto.PositionsResponse
	err := c.post(ctx, "tinkoff.public.invest.api.contract.v1.OperationsService/GetPositions",
		dto.PositionsRequest{AccountID: accountID}, &body)
	if err != nil {
		return nil, err
	}

	positions := make([]entity.Position, 0, len(body.Securities))
	for _, p := range body.Securities {
		balance, err := strconv.ParseInt(p.Balance, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse balance %q: %w", p.Balance, err)
		}
		blocked := int64(0)
		if p.Blocked != "" {
			if blocked, err = strconv.ParseInt(p.Blocked, 10, 64); err != nil {
				return nil, fmt.Errorf("parse blocked %q: %w", p.Blocked, err)
			}
		}
		positions = append(positions, entity.Position{
			Figi:          p.Figi,
			Balance:       balance,
			Blocked:       blocked,
			InstrumentUID: p.InstrumentUID,
			PositionUID:   p.PositionUID,
		})
	}
	return positions, nil
}

// post は1回のAPI呼び出しを実行し、エラー応答を型付きエラーへ変換します。
func (c *Client) post(ctx context.Context, method string, reqBody, resBody any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%s", c.cfg.BaseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return c.decodeError(res)
	}
	return json.NewDecoder(res.Body).Decode(resBody)
}

// decodeError は4xx/5xx応答を型付きエラーへ変換します。
// 429およびRESOURCE_EXHAUSTEDはリセット待機時間付きのRateLimitErrorになります。
func (c *Client) decodeError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}
	// エラーボディが壊れていてもステータスコードで分類は続行する
	_ = json.NewDecoder(res.Body).Decode(apiErr)

	switch {
	case res.StatusCode == http.StatusTooManyRequests || apiErr.Code == grpcResourceExhausted:
		return &RateLimitError{ResetAfter: resetAfter(res)}
	case res.StatusCode == http.StatusNotFound || apiErr.Code == grpcNotFound:
		return ErrNotFound
	}
	return apiErr
}

// resetAfter はx-ratelimit-resetヘッダー（秒）を待機時間に変換します。
// ヘッダーが無い場合は1分（クォータ周期）を返します。
func resetAfter(res *http.Response) time.Duration {
	if v := res.Header.Get("x-ratelimit-reset"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Minute
}
