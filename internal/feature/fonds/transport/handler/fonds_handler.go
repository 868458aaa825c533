// Package handler はfondsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"fonds_backend/internal/feature/fonds/domain/entity"
	"fonds_backend/internal/feature/fonds/transport/http/dto"
	"fonds_backend/internal/feature/fonds/usecase"
)

// FondsUsecase は銘柄・指標の読み取り系ユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type FondsUsecase interface {
	Sectors(ctx context.Context) ([]entity.Sector, error)
	SharesBySector(ctx context.Context, sector entity.Sector) ([]entity.Share, error)
	FundamentalsByAsset(ctx context.Context, assetUID string) (*entity.Fundamentals, error)
	Search(ctx context.Context, query string) ([]entity.Share, error)
	TopBySector(ctx context.Context, sector entity.Sector, kind entity.RatioKind, limit, offset int) ([]entity.RankedShare, error)
	Positions(ctx context.Context, accountID string) ([]entity.EnrichedPosition, error)
}

// FondsHandler は銘柄・指標のHTTPリクエストを処理します。
type FondsHandler struct {
	uc FondsUsecase
}

// NewFondsHandler は新しい FondsHandler を作成します。
func NewFondsHandler(uc FondsUsecase) *FondsHandler {
	return &FondsHandler{uc: uc}
}

// Sectors はカタログに存在するセクターの一覧を返すAPIです。
//
// GET /fonds/sectors
func (h *FondsHandler) Sectors(c *gin.Context) {
	sectors, err := h.uc.Sectors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

// SharesBySector は指定セクターの銘柄一覧を返すAPIです。
//
// GET /fonds/shares?sector=it
func (h *FondsHandler) SharesBySector(c *gin.Context) {
	sector := entity.Sector(c.Query("sector"))
	shares, err := h.uc.SharesBySector(c.Request.Context(), sector)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownSector) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sector", "sector": string(sector)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toShareItems(shares))
}

// FundamentalsByAsset は1assetの財務指標を返すAPIです。
// 行が無い場合はエラーではなく明示的なnot foundペイロードを返します。
//
// GET /fonds/fundamentals/:asset_uid
func (h *FondsHandler) FundamentalsByAsset(c *gin.Context) {
	assetUID := c.Param("asset_uid")
	f, err := h.uc.FundamentalsByAsset(c.Request.Context(), assetUID)
	if err != nil {
		if errors.Is(err, usecase.ErrFundamentalsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "fundamentals not found", "asset_uid": assetUID})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FundamentalsResponse{
		AssetUID:     f.AssetUID,
		PE:           f.PE,
		PS:           f.PS,
		PB:           f.PB,
		EVToEBITDA:   f.EVToEBITDA,
		ROE:          f.ROE,
		DebtToEquity: f.DebtToEquity,
		UpdatedAt:    f.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// Search はティッカー・銘柄名検索APIです。ヒットなしは空リストを返します。
//
// GET /fonds/search?query=SBER
func (h *FondsHandler) Search(c *gin.Context) {
	shares, err := h.uc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toShareItems(shares))
}

// TopBySector はセクター×指標のランキングAPIです。
// 未知の指標は構造化エラーペイロードになります（黙って空リストは返しません）。
//
// GET /fonds/top?sector=it&ratio=pe&limit=20&offset=0
func (h *FondsHandler) TopBySector(c *gin.Context) {
	sector := entity.Sector(c.Query("sector"))
	kind := entity.RatioKind(c.Query("ratio"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ranked, err := h.uc.TopBySector(c.Request.Context(), sector, kind, limit, offset)
	if err != nil {
		var unknownRatio *usecase.UnknownRatioError
		switch {
		case errors.As(err, &unknownRatio):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "unknown ratio kind",
				"ratio":     string(unknownRatio.Kind),
				"supported": supportedRatios(),
			})
		case errors.Is(err, usecase.ErrUnknownSector):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sector", "sector": string(sector)})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	out := make([]dto.RankedShareItem, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, dto.RankedShareItem{
			ShareItem: toShareItem(r.Share),
			Value:     r.Value,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Positions は口座ポジション一覧APIです。
//
// GET /portfolio/positions?account_id=...
func (h *FondsHandler) Positions(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		accountID = os.Getenv("TINKOFF_ACCOUNT_ID")
	}
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	positions, err := h.uc.Positions(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.PositionItem, 0, len(positions))
	for _, p := range positions {
		out = append(out, dto.PositionItem{
			Figi:    p.Figi,
			Ticker:  p.Ticker,
			Name:    p.Name,
			Sector:  string(p.Sector),
			Balance: p.Balance,
			Blocked: p.Blocked,
		})
	}
	c.JSON(http.StatusOK, out)
}

func toShareItem(s entity.Share) dto.ShareItem {
	return dto.ShareItem{
		Ticker:    s.Ticker,
		Figi:      s.Figi,
		Name:      s.Name,
		ClassCode: s.ClassCode,
		UID:       s.UID,
		AssetUID:  s.AssetUID,
		Sector:    string(s.Sector),
	}
}

func toShareItems(shares []entity.Share) []dto.ShareItem {
	out := make([]dto.ShareItem, 0, len(shares))
	for _, s := range shares {
		out = append(out, toShareItem(s))
	}
	return out
}

func supportedRatios() []string {
	kinds := make([]string, 0, len(entity.RatioRules))
	for k := range entity.RatioRules {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}
