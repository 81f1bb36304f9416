package folio

import (
	"strings"
	"time"
)

// Holding is a lot: a quantity of one asset bought at a price and time.
type Holding struct {
	ID        string // opaque, may be empty
	Symbol    string
	AssetType string // raw label, see NormalizeType
	Quantity  Quantity
	BuyPrice  Money
	BuyTime   time.Time // zero when unknown
}

// CostBasis returns BuyPrice x Quantity.
func (h Holding) CostBasis() Money { return h.BuyPrice.Mul(h.Quantity) }

func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", h.ID)
	w.Append("symbol", h.Symbol)
	w.Optional("assetType", h.AssetType)
	w.Append("quantity", h.Quantity)
	w.Append("buyPrice", h.BuyPrice)
	w.Optional("buyTime", h.BuyTime)
	return w.MarshalJSON()
}

// PerformanceQuote is the valuation of one lot as reported by the data source.
// Any field may be zero, meaning absent.
type PerformanceQuote struct {
	ID           string
	Symbol       string
	Type         string
	Quantity     Quantity
	BuyPrice     Money
	CurrentPrice Money
	Invested     Money
	CurrentValue Money
	PnL          Money
	PnLPercent   Percent
}

// Performance is the portfolio valuation reported by the data source.
type Performance struct {
	TotalInvested     Money
	CurrentValue      Money
	ProfitLoss        Money
	ProfitLossPercent Percent
	Assets            []PerformanceQuote
}

// MergedHolding is a Holding reconciled with its quote.
type MergedHolding struct {
	Holding
	Type         AssetType
	CurrentPrice Money
	Invested     Money
	CurrentValue Money
	PnL          Money
	PnLPercent   Percent
	Quoted       bool // a quote matched this lot
}

func (m MergedHolding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(m.Holding)
	w.Append("type", m.Type)
	w.Append("currentPrice", m.CurrentPrice)
	w.Append("invested", m.Invested)
	w.Append("currentValue", m.CurrentValue)
	w.Append("pnl", m.PnL)
	w.Append("pnlPercent", m.PnLPercent)
	w.Append("quoted", m.Quoted)
	return w.MarshalJSON()
}

// canonicalSymbol returns the uppercase form of a ticker.
func canonicalSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
