package entity

import "time"

// Fundamentals は1社（asset_uid）あたりの財務指標スナップショットです。
// 指標はプロバイダーが値を返さないことがあるため、すべてnullableです。
type Fundamentals struct {
	AssetUID     string
	PE           *float64 // 株価収益率
	PS           *float64 // 株価売上高倍率
	PB           *float64 // 株価純資産倍率
	EVToEBITDA   *float64 // EV/EBITDA
	ROE          *float64 // 自己資本利益率
	DebtToEquity *float64 // 負債資本倍率
	UpdatedAt    time.Time
}

// RatioKind identifies one of the supported financial ratios.
type RatioKind string

const (
	RatioPE           RatioKind = "pe"
	RatioPS           RatioKind = "ps"
	RatioPB           RatioKind = "pb"
	RatioEVToEBITDA   RatioKind = "ev_ebitda"
	RatioROE          RatioKind = "roe"
	RatioDebtToEquity RatioKind = "debt_to_equity"
)

// SortDirection はランキングの並び順です。
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// RatioRule は指標ごとの有効性条件と並び順のペアです。
// 指標の生の値は一律には比較できないため、指標ごとにルールを持ちます。
type RatioRule struct {
	// Column is the fundamentals column holding the ratio value.
	Column string
	// Predicate is the SQL condition a row must satisfy to be ranked.
	Predicate string
	// Direction orders the ranking: ascending means "cheaper is better".
	Direction SortDirection
	// Matches reports whether an in-memory value satisfies the predicate.
	Matches func(v float64) bool
}

// RatioRules maps every supported ratio kind to its ranking rule.
// Adding a new ratio is a single entry here.
var RatioRules = map[RatioKind]RatioRule{
	RatioPE: {
		Column:    "pe",
		Predicate: "pe > 0",
		Direction: SortAsc,
		Matches:   func(v float64) bool { return v > 0 },
	},
	RatioPS: {
		Column:    "ps",
		Predicate: "ps > 0 AND ps < 1",
		Direction: SortAsc,
		Matches:   func(v float64) bool { return v > 0 && v < 1 },
	},
	RatioPB: {
		Column:    "pb",
		Predicate: "pb > 0 AND pb < 1",
		Direction: SortAsc,
		Matches:   func(v float64) bool { return v > 0 && v < 1 },
	},
	RatioEVToEBITDA: {
		Column:    "ev_to_ebitda",
		Predicate: "ev_to_ebitda > 0",
		Direction: SortAsc,
		Matches:   func(v float64) bool { return v > 0 },
	},
	RatioROE: {
		Column:    "roe",
		Predicate: "roe > 0",
		Direction: SortDesc,
		Matches:   func(v float64) bool { return v > 0 },
	},
	RatioDebtToEquity: {
		Column:    "debt_to_equity",
		Predicate: "debt_to_equity > 0",
		Direction: SortAsc,
		Matches:   func(v float64) bool { return v > 0 },
	},
}

// RankedShare はランキングクエリの1行で、カタログ行と指標値の結合結果です。
type RankedShare struct {
	Share
	Value float64
}
