package folio

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

// CashLedger is the uninvested cash balance. It is safe for concurrent use.
// The balance never goes below zero.
type CashLedger struct {
	mu      sync.Mutex
	balance Money
}

// NewCashLedger returns a ledger starting at initial, or zero if initial is
// negative.
func NewCashLedger(initial Money) *CashLedger {
	if initial.IsNegative() {
		initial = Money{cur: initial.cur}
	}
	return &CashLedger{balance: initial}
}

// Balance returns the current balance.
func (c *CashLedger) Balance() Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// Add deposits amount. It reports false and leaves the balance unchanged when
// amount is not a finite positive number.
func (c *CashLedger) Add(amount float64) bool {
	d, ok := validAmount(amount)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance.value = c.balance.value.Add(d)
	return true
}

// Remove withdraws amount, clamping the balance at zero. Like Add it ignores
// amounts that are not finite and positive.
func (c *CashLedger) Remove(amount float64) bool {
	d, ok := validAmount(amount)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance.value = decimal.Max(decimal.Zero, c.balance.value.Sub(d))
	return true
}

func validAmount(amount float64) (decimal.Decimal, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(amount), true
}
