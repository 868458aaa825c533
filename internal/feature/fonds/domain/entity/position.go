package entity

// Position は口座内の1証券ポジションです。
type Position struct {
	Figi          string
	Balance       int64
	Blocked       int64
	InstrumentUID string
	PositionUID   string
}

// EnrichedPosition はポジションにカタログ上の銘柄情報を付加したものです。
// カタログに無い銘柄はTicker/Nameが空のまま返ります。
type EnrichedPosition struct {
	Position
	Ticker string
	Name   string
	Sector Sector
}
