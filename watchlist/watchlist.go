// Package watchlist follows symbols and sectors outside the portfolio and
// aggregates their news.
package watchlist

import (
	"context"
	"strings"
)

// Item is a watched symbol.
type Item struct {
	Symbol    string `json:"symbol"`
	AssetType string `json:"assetType,omitempty"`
}

// Sector is a tracked market sector.
type Sector struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Quote is the latest market price of a watched symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change,omitempty"`
	ChangePercent float64 `json:"changePercent,omitempty"`
}

// Source is the remote holder of the watchlist and tracked sectors.
type Source interface {
	Watchlist(ctx context.Context) ([]Item, error)
	Sectors(ctx context.Context) ([]Sector, error)
}

// Catalog is the list of sectors that can be tracked.
var Catalog = []string{
	"Technology",
	"Financials",
	"Healthcare",
	"Consumer Discretionary",
	"Consumer Staples",
	"Industrials",
	"Energy",
	"Utilities",
	"Materials",
	"Real Estate",
	"Communication Services",
}

// NormalizeSector returns the catalog spelling of name, matched ignoring
// case. Names outside the catalog are capitalized: "crypto" gives "Crypto".
func NormalizeSector(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	for _, s := range Catalog {
		if strings.EqualFold(s, name) {
			return s
		}
	}
	r := []rune(name)
	return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
}

// DefaultKeywords are the synonyms matched in general news for each catalog sector.
var DefaultKeywords = map[string][]string{
	"Technology":             {"TECH", "SOFTWARE", "SEMICONDUCTOR", "IT", "CLOUD"},
	"Financials":             {"BANK", "FINANCIAL", "FINTECH", "LENDER", "INSURANCE"},
	"Healthcare":             {"HEALTH", "BIOTECH", "PHARMA", "MEDICAL"},
	"Industrials":            {"INDUSTRIAL", "MANUFACTURING", "DEFENSE", "AEROSPACE"},
	"Energy":                 {"ENERGY", "OIL", "GAS", "POWER"},
	"Utilities":              {"UTILITY", "ELECTRIC", "WATER", "GRID"},
	"Materials":              {"MATERIAL", "MINING", "METAL", "CHEMICAL"},
	"Real Estate":            {"REAL ESTATE", "REIT", "PROPERTY"},
	"Consumer Discretionary": {"RETAIL", "CONSUMER", "AUTOMAKER", "APPAREL"},
	"Consumer Staples":       {"STAPLES", "GROCERY", "FOOD", "BEVERAGE"},
	"Communication Services": {"MEDIA", "TELECOM", "STREAMING"},
}
