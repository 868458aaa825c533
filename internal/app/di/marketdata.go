package di

import (
	"fonds_backend/internal/feature/fonds/usecase"
	"fonds_backend/internal/platform/externalapi/tinkoff"
	platformhttp "fonds_backend/internal/platform/http"
)

// NewMarketDataProvider creates the brokerage REST client used as the
// market data provider. The HTTP client carries an explicit timeout so a
// stalled provider call cannot hang an ingestion run.
func NewMarketDataProvider() usecase.MarketDataProvider {
	cfg := tinkoff.LoadConfig()
	return tinkoff.NewClient(cfg, platformhttp.NewHTTPClient(cfg.Timeout))
}
