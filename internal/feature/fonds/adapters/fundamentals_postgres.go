package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/feature/fonds/usecase"
)

// fundamentalsPostgres はFundamentalsRepositoryインターフェースのPostgreSQL実装です。
type fundamentalsPostgres struct {
	db *gorm.DB
}

var _ usecase.FundamentalsRepository = (*fundamentalsPostgres)(nil)

// NewFundamentalsRepository は指定されたDB接続でfundamentalsPostgresの新しいインスタンスを生成します。
func NewFundamentalsRepository(db *gorm.DB) *fundamentalsPostgres {
	return &fundamentalsPostgres{db: db}
}

// FundamentalsModel は指標テーブルの1行です。asset_uidごとに最大1行の不変条件を
// 主キーで担保し、後続の計算は重複ではなく上書きになります。
type FundamentalsModel struct {
	AssetUID     string    `gorm:"primaryKey;size:64"`
	PE           *float64  `gorm:"column:pe"`
	PS           *float64  `gorm:"column:ps"`
	PB           *float64  `gorm:"column:pb"`
	EVToEBITDA   *float64  `gorm:"column:ev_to_ebitda"`
	ROE          *float64  `gorm:"column:roe"`
	DebtToEquity *float64  `gorm:"column:debt_to_equity"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (FundamentalsModel) TableName() string {
	return "fundamentals"
}

// Upsert はasset_uidをキーに挿入、衝突時は全指標とタイムスタンプを上書きします。
func (r *fundamentalsPostgres) Upsert(ctx context.Context, f entity.Fundamentals) error {
	m := FundamentalsModel{
		AssetUID:     f.AssetUID,
		PE:           f.PE,
		PS:           f.PS,
		PB:           f.PB,
		EVToEBITDA:   f.EVToEBITDA,
		ROE:          f.ROE,
		DebtToEquity: f.DebtToEquity,
		UpdatedAt:    f.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asset_uid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pe", "ps", "pb", "ev_to_ebitda", "roe", "debt_to_equity", "updated_at",
		}),
	}).Create(&m).Error
}

// FindByAssetUID は指標行を1件取得します。
func (r *fundamentalsPostgres) FindByAssetUID(ctx context.Context, assetUID string) (*entity.Fundamentals, error) {
	var m FundamentalsModel
	if err := r.db.WithContext(ctx).Where("asset_uid = ?", assetUID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrFundamentalsNotFound
		}
		return nil, err
	}
	return &entity.Fundamentals{
		AssetUID:     m.AssetUID,
		PE:           m.PE,
		PS:           m.PS,
		PB:           m.PB,
		EVToEBITDA:   m.EVToEBITDA,
		ROE:          m.ROE,
		DebtToEquity: m.DebtToEquity,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// rankedRow はランキングクエリのスキャン先です。
type rankedRow struct {
	UID       string
	Ticker    string
	Figi      string
	Name      string
	ClassCode string
	AssetUID  string
	Sector    string
	Value     float64
}

// RankBySector はカタログと指標をasset_uidで結合し、指標別ルールで
// フィルタ・ソートした結果をページネーション付きで返します。
// ルールはRatioRulesのディスパッチテーブルから引くため、未知の指標は
// 空リストではなく明示的なエラーになります。
func (r *fundamentalsPostgres) RankBySector(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error) {
	rule, ok := entity.RatioRules[kind]
	if !ok {
		return nil, &usecase.UnknownRatioError{Kind: kind}
	}

	var rows []rankedRow
	err := r.db.WithContext(ctx).
		Table("shares").
		Select(fmt.Sprintf(
			"shares.uid, shares.ticker, shares.figi, shares.name, shares.class_code, shares.asset_uid, shares.sector, fundamentals.%s AS value",
			rule.Column)).
		Joins("JOIN fundamentals ON fundamentals.asset_uid = shares.asset_uid").
		Where("shares.sector = ?", string(sector)).
		Where(rule.Predicate).
		Order(fmt.Sprintf("fundamentals.%s %s", rule.Column, rule.Direction)).
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.RankedShare, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.RankedShare{
			Share: entity.Share{
				UID:       row.UID,
				Ticker:    row.Ticker,
				Figi:      row.Figi,
				Name:      row.Name,
				ClassCode: row.ClassCode,
				AssetUID:  row.AssetUID,
				Sector:    entity.Sector(row.Sector),
			},
			Value: row.Value,
		})
	}
	return out, nil
}
