package dto

// FundamentalsRequest represents the request body of
// InstrumentsService/GetAssetFundamentals.
type FundamentalsRequest struct {
	Assets []string `json:"assets"`
}

// FundamentalsResponse represents the JSON response of
// InstrumentsService/GetAssetFundamentals.
type FundamentalsResponse struct {
	Fundamentals []FundamentalItem `json:"fundamentals"`
}

// FundamentalItem carries the financial ratios for one asset.
// Ratios the provider cannot compute are omitted from the payload.
type FundamentalItem struct {
	AssetUID             string   `json:"assetUid"`
	PriceToEarningsTTM   *float64 `json:"priceToEarningsTtm"`
	PriceToSalesTTM      *float64 `json:"priceToSalesTtm"`
	PriceToBookTTM       *float64 `json:"priceToBookTtm"`
	EVToEBITDAMRQ        *float64 `json:"evToEbitdaMrq"`
	ROE                  *float64 `json:"roe"`
	TotalDebtToEquityMRQ *float64 `json:"totalDebtToEquityMrq"`
}
