package folio

// Totals holds the market value of each allocation bucket.
type Totals struct {
	Stocks Money
	Bonds  Money
	Crypto Money
}

func (t Totals) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("stocks", t.Stocks)
	w.Append("bonds", t.Bonds)
	w.Append("crypto", t.Crypto)
	return w.MarshalJSON()
}

// ComputeTotals sums the current value of merged holdings by asset class.
// Holdings of any other class are not counted.
func ComputeTotals(merged []MergedHolding) Totals {
	var t Totals
	for _, m := range merged {
		switch m.Type {
		case Stock:
			t.Stocks = t.Stocks.Add(m.CurrentValue)
		case Bond:
			t.Bonds = t.Bonds.Add(m.CurrentValue)
		case Crypto:
			t.Crypto = t.Crypto.Add(m.CurrentValue)
		}
	}
	return t
}

// Allocation bucket labels, in display order.
const (
	LabelStocks = "Stocks"
	LabelBonds  = "Bonds"
	LabelCrypto = "Crypto"
	LabelCash   = "Cash"
)

// Allocation is the chart-ready split of the portfolio value. Labels and
// Values have the same length and order.
type Allocation struct {
	Labels []string `json:"labels"`
	Values []Money  `json:"values"`
}

// ComputeAllocation returns the four fixed buckets Stocks, Bonds, Crypto and
// Cash. Values are raw amounts, not fractions.
func ComputeAllocation(t Totals, cash Money) Allocation {
	return Allocation{
		Labels: []string{LabelStocks, LabelBonds, LabelCrypto, LabelCash},
		Values: []Money{t.Stocks, t.Bonds, t.Crypto, cash},
	}
}

// Summary are the portfolio wide aggregates.
type Summary struct {
	CostBasis   Money
	MarketValue Money
	PnL         Money
	PnLPercent  Percent
	Positions   int
}

func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("costBasis", s.CostBasis)
	w.Append("marketValue", s.MarketValue)
	w.Append("pnl", s.PnL)
	w.Append("pnlPercent", s.PnLPercent)
	w.Append("positions", s.Positions)
	return w.MarshalJSON()
}

// Summarize computes cost basis, market value and P/L over merged holdings.
// The P/L is the sum of the lots' P/L, so a quoted pnl is kept as is. The
// P/L percent is 0 when the cost basis is 0.
func Summarize(merged []MergedHolding) Summary {
	var s Summary
	for _, m := range merged {
		s.CostBasis = s.CostBasis.Add(m.Invested)
		s.MarketValue = s.MarketValue.Add(m.CurrentValue)
		s.PnL = s.PnL.Add(m.PnL)
	}
	s.PnLPercent = ratio(s.PnL, s.CostBasis)
	s.Positions = len(merged)
	return s
}

// Reported returns the portfolio totals as computed by the data source.
func Reported(p Performance) Summary {
	return Summary{
		CostBasis:   p.TotalInvested,
		MarketValue: p.CurrentValue,
		PnL:         p.ProfitLoss,
		PnLPercent:  p.ProfitLossPercent,
		Positions:   len(p.Assets),
	}
}

// Shares returns each value as a percentage of the sum of all values.
func (a Allocation) Shares() []Percent {
	var total Money
	for _, v := range a.Values {
		total = total.Add(v)
	}
	shares := make([]Percent, len(a.Values))
	for i, v := range a.Values {
		shares[i] = ratio(v, total)
	}
	return shares
}
