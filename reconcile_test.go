package folio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	t.Run("quote values win", func(t *testing.T) {
		holdings := []Holding{lot("1", "aapl", "STOCK", 10, 20, day(1))}
		quotes := []PerformanceQuote{{
			ID: "1", Symbol: "AAPL", Type: "STOCK",
			CurrentPrice: USD(25), Invested: USD(199), CurrentValue: USD(251), PnL: USD(52), PnLPercent: 26.13,
		}}
		got := Reconcile(holdings, quotes)
		require.Len(t, got, 1)
		m := got[0]
		assert.True(t, m.Quoted)
		assert.Equal(t, "AAPL", m.Symbol)
		assert.Equal(t, Stock, m.Type)
		assertMoney(t, USD(25), m.CurrentPrice)
		assertMoney(t, USD(199), m.Invested)
		assertMoney(t, USD(251), m.CurrentValue)
		assertMoney(t, USD(52), m.PnL)
		assert.True(t, m.PnLPercent.Equal(26.13))
	})

	t.Run("fallback without quote", func(t *testing.T) {
		got := Reconcile([]Holding{lot("1", "AAPL", "BOND_ETF", 10, 20, day(1))}, nil)
		require.Len(t, got, 1)
		m := got[0]
		assert.False(t, m.Quoted)
		assert.Equal(t, Bond, m.Type)
		assertMoney(t, USD(200), m.Invested)
		assertMoney(t, USD(0), m.CurrentValue)
		assertMoney(t, USD(-200), m.PnL)
		assert.True(t, m.PnLPercent.Equal(-100))
	})

	t.Run("fallback with price only", func(t *testing.T) {
		got := Reconcile(
			[]Holding{lot("1", "AAPL", "STOCK", 10, 20, day(1))},
			[]PerformanceQuote{{ID: "1", CurrentPrice: USD(30)}},
		)
		m := got[0]
		assertMoney(t, USD(300), m.CurrentValue)
		assertMoney(t, USD(200), m.Invested)
		assertMoney(t, USD(100), m.PnL)
		assert.True(t, m.PnLPercent.Equal(50))
	})

	t.Run("padded type label is counted", func(t *testing.T) {
		got := Reconcile(
			[]Holding{lot("1", "AAPL", "STOCK ", 1, 10, day(1))},
			[]PerformanceQuote{{ID: "1", Type: " STOCK", CurrentValue: USD(10)}},
		)
		assert.Equal(t, Stock, got[0].Type)
		assertMoney(t, USD(10), ComputeTotals(got).Stocks)
	})

	t.Run("quote type wins over holding type", func(t *testing.T) {
		got := Reconcile(
			[]Holding{lot("1", "TLT", "STOCK", 1, 1, day(1)), lot("2", "X", "", 1, 1, day(1))},
			[]PerformanceQuote{{ID: "1", Type: "BOND_ETF"}, {ID: "2"}},
		)
		assert.Equal(t, Bond, got[0].Type)
		assert.Equal(t, Unknown, got[1].Type)
	})

	t.Run("symbol key when an id is missing", func(t *testing.T) {
		holdings := []Holding{
			lot("1", "AAPL", "STOCK", 1, 10, day(1)),
			lot("2", "BTC", "CRYPTO", 2, 10, day(2)),
		}
		quotes := []PerformanceQuote{
			{ID: "1", Symbol: "AAPL", CurrentValue: USD(11)},
			{Symbol: "btc", CurrentValue: USD(40)},
		}
		got := Reconcile(holdings, quotes)
		assertMoney(t, USD(11), got[0].CurrentValue)
		assertMoney(t, USD(40), got[1].CurrentValue)
	})

	t.Run("id key does not match by symbol", func(t *testing.T) {
		got := Reconcile(
			[]Holding{lot("1", "AAPL", "STOCK", 1, 10, day(1)), lot("2", "AAPL", "STOCK", 1, 10, day(2))},
			[]PerformanceQuote{{ID: "2", Symbol: "AAPL", CurrentValue: USD(12)}},
		)
		assert.False(t, got[0].Quoted)
		assert.True(t, got[1].Quoted)
		assertMoney(t, USD(12), got[1].CurrentValue)
	})

	t.Run("malformed quote is skipped", func(t *testing.T) {
		got := Reconcile(
			[]Holding{lot("1", "AAPL", "STOCK", 1, 10, day(1))},
			[]PerformanceQuote{{CurrentValue: USD(999)}, {ID: "1", Symbol: "AAPL", CurrentValue: USD(11)}},
		)
		// the malformed quote must not force symbol keying nor match anything
		assert.True(t, got[0].Quoted)
		assertMoney(t, USD(11), got[0].CurrentValue)
	})

	t.Run("order, completeness and idempotence", func(t *testing.T) {
		holdings := []Holding{
			lot("3", "C", "CRYPTO", 1, 3, day(3)),
			lot("1", "A", "STOCK", 1, 1, day(1)),
			lot("2", "B", "BOND", 1, 2, day(2)),
			lot("4", "D", "STOCK", 1, 4, day(4)),
		}
		quotes := []PerformanceQuote{{ID: "1", CurrentValue: USD(5)}, {ID: "2", CurrentValue: USD(6)}}
		first := Reconcile(holdings, quotes)
		second := Reconcile(holdings, quotes)
		require.Len(t, first, len(holdings))
		for i := range holdings {
			assert.Equal(t, holdings[i].ID, first[i].ID)
		}
		assert.Equal(t, first, second)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Reconcile(nil, nil))
		assert.NotNil(t, Reconcile(nil, nil))
	})
}
