package folio

import (
	"testing"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day returns midnight UTC of a day in January 2025.
func day(d int) time.Time { return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC) }

// assertMoney compares amounts regardless of their decimal representation.
func assertMoney(t *testing.T, want, got Money, msgAndArgs ...any) {
	t.Helper()
	if !want.Decimal().Equal(got.Decimal()) {
		t.Errorf("got %v, want %v %v", got, want, msgAndArgs)
	}
}

func lot(id, symbol, typ string, qty, price float64, bought time.Time) Holding {
	return Holding{ID: id, Symbol: symbol, AssetType: typ, Quantity: Q(qty), BuyPrice: USD(price), BuyTime: bought}
}
