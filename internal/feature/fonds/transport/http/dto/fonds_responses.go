// Package dto defines data transfer objects for the fonds HTTP API.
package dto

// ShareItem represents one catalog instrument in API responses.
type ShareItem struct {
	Ticker    string `json:"ticker"`
	Figi      string `json:"figi"`
	Name      string `json:"name"`
	ClassCode string `json:"class_code"`
	UID       string `json:"uid"`
	AssetUID  string `json:"asset_uid"`
	Sector    string `json:"sector"`
}

// FundamentalsResponse represents the ratio snapshot for one asset.
// Missing ratios are rendered as null.
type FundamentalsResponse struct {
	AssetUID     string   `json:"asset_uid"`
	PE           *float64 `json:"pe"`
	PS           *float64 `json:"ps"`
	PB           *float64 `json:"pb"`
	EVToEBITDA   *float64 `json:"ev_ebitda"`
	ROE          *float64 `json:"roe"`
	DebtToEquity *float64 `json:"debt_to_equity"`
	UpdatedAt    string   `json:"updated_at"`
}

// RankedShareItem is one row of a sector ranking response.
type RankedShareItem struct {
	ShareItem
	Value float64 `json:"value"`
}

// PositionItem is one portfolio position enriched with catalog data.
type PositionItem struct {
	Figi    string `json:"figi"`
	Ticker  string `json:"ticker,omitempty"`
	Name    string `json:"name,omitempty"`
	Sector  string `json:"sector,omitempty"`
	Balance int64  `json:"balance"`
	Blocked int64  `json:"blocked"`
}
