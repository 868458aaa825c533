package dto

// PositionsRequest represents the request body of OperationsService/GetPositions.
type PositionsRequest struct {
	AccountID string `json:"accountId"`
}

// PositionsResponse represents the JSON response of OperationsService/GetPositions.
type PositionsResponse struct {
	Securities []PositionItem `json:"securities"`
}

// PositionItem is one security position in a portfolio.
// Balance arrives as a string-encoded integer in the JSON payload.
type PositionItem struct {
	Figi          string `json:"figi"`
	Balance       string `json:"balance"`
	Blocked       string `json:"blocked"`
	InstrumentUID string `json:"instrumentUid"`
	PositionUID   string `json:"positionUid"`
}
