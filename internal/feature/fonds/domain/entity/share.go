// Package entity defines the domain models for the fonds feature.
package entity

// Sector は銘柄が属する業種区分です。閉じた集合として扱います。
type Sector string

const (
	SectorConsumer       Sector = "consumer"
	SectorElectrocars    Sector = "electrocars"
	SectorIndustrials    Sector = "industrials"
	SectorMaterials      Sector = "materials"
	SectorFinancial      Sector = "financial"
	SectorOther          Sector = "other"
	SectorIT             Sector = "it"
	SectorEnergy         Sector = "energy"
	SectorHealthCare     Sector = "health_care"
	SectorTelecom        Sector = "telecom"
	SectorRealEstate     Sector = "real_estate"
	SectorGreenEnergy    Sector = "green_energy"
	SectorUtilities      Sector = "utilities"
	SectorEcomaterials   Sector = "ecomaterials"
	SectorGreenBuildings Sector = "green_buildings"
)

// Sectors は対応している全業種の一覧です。
var Sectors = []Sector{
	SectorConsumer,
	SectorElectrocars,
	SectorIndustrials,
	SectorMaterials,
	SectorFinancial,
	SectorOther,
	SectorIT,
	SectorEnergy,
	SectorHealthCare,
	SectorTelecom,
	SectorRealEstate,
	SectorGreenEnergy,
	SectorUtilities,
	SectorEcomaterials,
	SectorGreenBuildings,
}

// Valid はセクターが既知の値かどうかを返します。
func (s Sector) Valid() bool {
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

// Share represents one tradable instrument in the catalog.
// UID is unique within a refresh cycle; AssetUID groups related listings of
// the same underlying company and is the join key to fundamentals.
type Share struct {
	Ticker    string
	Figi      string
	Name      string
	ClassCode string
	UID       string
	AssetUID  string
	Sector    Sector
}

// ListedShare is a Share together with the provider's transient trading
// attributes. The refresh job filters on these fields and then drops them;
// they are never persisted.
type ListedShare struct {
	Share
	Exchange      string
	BuyAvailable  bool
	SellAvailable bool
}
