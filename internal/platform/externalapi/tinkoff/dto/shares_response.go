// Package dto defines data transfer objects for the invest REST API responses.
package dto

// SharesRequest represents the request body of InstrumentsService/Shares.
type SharesRequest struct {
	InstrumentStatus string `json:"instrumentStatus"`
}

// SharesResponse represents the JSON response of InstrumentsService/Shares.
type SharesResponse struct {
	Instruments []ShareItem `json:"instruments"`
}

// ShareItem is one tradable instrument as returned by the provider.
type ShareItem struct {
	Ticker            string `json:"ticker"`
	Figi              string `json:"figi"`
	Name              string `json:"name"`
	ClassCode         string `json:"classCode"`
	UID               string `json:"uid"`
	AssetUID          string `json:"assetUid"`
	Sector            string `json:"sector"`
	Exchange          string `json:"exchange"`
	BuyAvailableFlag  bool   `json:"buyAvailableFlag"`
	SellAvailableFlag bool   `json:"sellAvailableFlag"`
}
