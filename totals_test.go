package folio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func merged(typ AssetType, invested, value float64) MergedHolding {
	return MergedHolding{Type: typ, Invested: USD(invested), CurrentValue: USD(value), PnL: USD(value - invested)}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals([]MergedHolding{
		merged(Stock, 0, 100),
		merged(Bond, 0, 50),
		merged(Crypto, 0, 25),
		merged(Unknown, 0, 1000),
		merged("REIT", 0, 1000),
	})
	assertMoney(t, USD(100), got.Stocks)
	assertMoney(t, USD(50), got.Bonds)
	assertMoney(t, USD(25), got.Crypto)
}

func TestComputeAllocation(t *testing.T) {
	totals := Totals{Stocks: USD(100), Bonds: USD(50), Crypto: USD(25)}
	got := ComputeAllocation(totals, USD(25))

	assert.Equal(t, []string{"Stocks", "Bonds", "Crypto", "Cash"}, got.Labels)
	want := []Money{USD(100), USD(50), USD(25), USD(25)}
	if assert.Len(t, got.Values, len(want)) {
		for i := range want {
			assertMoney(t, want[i], got.Values[i], got.Labels[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Run("profit", func(t *testing.T) {
		s := Summarize([]MergedHolding{merged(Stock, 100, 150), merged(Bond, 100, 90)})
		assertMoney(t, USD(200), s.CostBasis)
		assertMoney(t, USD(240), s.MarketValue)
		assertMoney(t, USD(40), s.PnL)
		assert.True(t, s.PnLPercent.Equal(20), "PnLPercent = %v", s.PnLPercent)
		assert.Equal(t, 2, s.Positions)
	})
	t.Run("quoted pnl is summed", func(t *testing.T) {
		m := merged(Stock, 100, 150)
		m.PnL = USD(45) // fees reported by the quote
		s := Summarize([]MergedHolding{m, merged(Bond, 100, 90)})
		assertMoney(t, USD(35), s.PnL)
		assert.True(t, s.PnLPercent.Equal(17.5), "PnLPercent = %v", s.PnLPercent)
	})
	t.Run("zero cost basis", func(t *testing.T) {
		s := Summarize([]MergedHolding{merged(Stock, 0, 150)})
		assert.Equal(t, Percent(0), s.PnLPercent)
	})
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		assert.True(t, s.CostBasis.IsZero())
		assert.Equal(t, Percent(0), s.PnLPercent)
	})
}

func TestAllocationShares(t *testing.T) {
	a := ComputeAllocation(Totals{Stocks: USD(50), Bonds: USD(25), Crypto: USD(0)}, USD(25))
	assert.Equal(t, []Percent{50, 25, 0, 25}, a.Shares())

	empty := ComputeAllocation(Totals{}, Money{})
	assert.Equal(t, []Percent{0, 0, 0, 0}, empty.Shares())
}

func TestReported(t *testing.T) {
	s := Reported(Performance{
		TotalInvested:     USD(200),
		CurrentValue:      USD(260),
		ProfitLoss:        USD(60),
		ProfitLossPercent: 30,
		Assets:            []PerformanceQuote{{ID: "1"}, {ID: "2"}},
	})
	assertMoney(t, USD(200), s.CostBasis)
	assertMoney(t, USD(260), s.MarketValue)
	assertMoney(t, USD(60), s.PnL)
	assert.Equal(t, Percent(30), s.PnLPercent)
	assert.Equal(t, 2, s.Positions)
}
