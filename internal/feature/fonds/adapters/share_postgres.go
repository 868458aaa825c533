// Package adapters はfondsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/feature/fonds/usecase"
	"fonds_backend/internal/shared/batch"
)

// sharePostgres はShareRepositoryインターフェースのPostgreSQL実装です。
type sharePostgres struct {
	db *gorm.DB
}

var _ usecase.ShareRepository = (*sharePostgres)(nil)

// NewShareRepository は指定されたDB接続でsharePostgresの新しいインスタンスを生成します。
func NewShareRepository(db *gorm.DB) *sharePostgres {
	return &sharePostgres{db: db}
}

// ShareModel はカタログテーブルの1行です。
// uid はリフレッシュサイクル内で一意、asset_uid は指標テーブルへの結合キーで
// 一意とは限りません（1社が複数の銘柄を持つことがあります）。
type ShareModel struct {
	UID       string `gorm:"primaryKey;size:64"`
	Ticker    string `gorm:"size:32;not null;index"`
	Figi      string `gorm:"size:32;not null;index"`
	Name      string `gorm:"size:255;not null"`
	ClassCode string `gorm:"size:32;not null"`
	AssetUID  string `gorm:"size:64;not null;index"`
	Sector    string `gorm:"size:32;not null;index"`
}

// shareFieldCount はShareModelのカラム数で、バッチ境界の計算に使います。
const shareFieldCount = 7

func (ShareModel) TableName() string {
	return "shares"
}

func toShareModel(e entity.Share) ShareModel {
	return ShareModel{
		UID:       e.UID,
		Ticker:    e.Ticker,
		Figi:      e.Figi,
		Name:      e.Name,
		ClassCode: e.ClassCode,
		AssetUID:  e.AssetUID,
		Sector:    string(e.Sector),
	}
}

func toShareEntity(m ShareModel) entity.Share {
	return entity.Share{
		UID:       m.UID,
		Ticker:    m.Ticker,
		Figi:      m.Figi,
		Name:      m.Name,
		ClassCode: m.ClassCode,
		AssetUID:  m.AssetUID,
		Sector:    entity.Sector(m.Sector),
	}
}

// ReplaceAll はカタログを丸ごと作り直します。
// 削除と全バッチのインサートを1トランザクションにまとめることで、
// 読み手が空または部分的なカタログを観測する窓を塞いでいます。
// 各バッチはバインドパラメータ上限に収まるサイズで計画されます。
func (r *sharePostgres) ReplaceAll(ctx context.Context, shares []entity.Share) error {
	ms := make([]ShareModel, 0, len(shares))
	for _, e := range shares {
		ms = append(ms, toShareModel(e))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM shares").Error; err != nil {
			return err
		}
		for _, rng := range batch.Plan(shareFieldCount, len(ms)) {
			start, end := rng.Clamp(len(ms))
			chunk := ms[start:end]
			if err := tx.Create(&chunk).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListBySector は指定セクターの銘柄をティッカー順に返します。
func (r *sharePostgres) ListBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error) {
	var rows []ShareModel
	if err := r.db.WithContext(ctx).
		Where("sector = ?", string(sector)).
		Order("ticker ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShareEntities(rows), nil
}

// Sectors はカタログに存在するセクターを返します。
func (r *sharePostgres) Sectors(ctx context.Context) ([]entity.Sector, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&ShareModel{}).
		Distinct().
		Order("sector ASC").
		Pluck("sector", &names).Error; err != nil {
		return nil, err
	}
	sectors := make([]entity.Sector, 0, len(names))
	for _, n := range names {
		sectors = append(sectors, entity.Sector(n))
	}
	return sectors, nil
}

// DistinctAssetUIDs は重複を除いたasset uidを返します。
func (r *sharePostgres) DistinctAssetUIDs(ctx context.Context) ([]string, error) {
	var uids []string
	if err := r.db.WithContext(ctx).
		Model(&ShareModel{}).
		Distinct().
		Where("asset_uid <> ''").
		Order("asset_uid ASC").
		Pluck("asset_uid", &uids).Error; err != nil {
		return nil, err
	}
	return uids, nil
}

// Search はティッカー前方一致または銘柄名部分一致で検索します。
func (r *sharePostgres) Search(ctx context.Context, query string) ([]entity.Share, error) {
	var rows []ShareModel
	if err := r.db.WithContext(ctx).
		Where("ticker LIKE ? OR name LIKE ?", query+"%", "%"+query+"%").
		Order("ticker ASC").
		Limit(50).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShareEntities(rows), nil
}

// ListByFigis はfigiリストに一致する銘柄を返します。
func (r *sharePostgres) ListByFigis(ctx context.Context, figis []string) ([]entity.Share, error) {
	if len(figis) == 0 {
		return []entity.Share{}, nil
	}
	var rows []ShareModel
	if err := r.db.WithContext(ctx).
		Where("figi IN ?", figis).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShareEntities(rows), nil
}

func toShareEntities(rows []ShareModel) []entity.Share {
	out := make([]entity.Share, 0, len(rows))
	for _, m := range rows {
		out = append(out, toShareEntity(m))
	}
	return out
}
