package folio

import (
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
)

// Action is the kind of a Mutation.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Mutation is a user request to add or remove a lot.
type Mutation struct {
	Action       Action
	ID           string // lot to sell
	Symbol       string
	Type         AssetType
	Quantity     Quantity
	PurchaseDate date.Date
}

// normalize validates m and returns it in canonical form. Every error wraps
// ErrInvalidMutation.
func (m Mutation) normalize() (Mutation, error) {
	m.Symbol = canonicalSymbol(m.Symbol)
	m.ID = strings.TrimSpace(m.ID)
	if !m.Quantity.IsPositive() {
		return m, fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidMutation)
	}
	switch m.Action {
	case Buy:
		if m.Symbol == "" {
			return m, fmt.Errorf("%w: symbol is required", ErrInvalidMutation)
		}
		if m.PurchaseDate.IsZero() {
			return m, fmt.Errorf("%w: purchase date is required", ErrInvalidMutation)
		}
		if strings.TrimSpace(string(m.Type)) == "" {
			m.Type = Stock
		}
		m.Type = ParseType(string(m.Type))
	case Sell:
		if m.ID == "" && m.Symbol == "" {
			return m, fmt.Errorf("%w: a lot id or a symbol is required", ErrInvalidMutation)
		}
	default:
		return m, fmt.Errorf("%w: unknown action %q", ErrInvalidMutation, m.Action)
	}
	return m, nil
}

// oldestLot returns the id of the earliest bought lot of symbol. Lots without
// a buy time come last.
func oldestLot(merged []MergedHolding, symbol string) (string, bool) {
	var best *MergedHolding
	for i := range merged {
		m := &merged[i]
		if m.Symbol != symbol || m.ID == "" {
			continue
		}
		switch {
		case best == nil:
			best = m
		case best.BuyTime.IsZero() && !m.BuyTime.IsZero():
			best = m
		case !m.BuyTime.IsZero() && m.BuyTime.Before(best.BuyTime):
			best = m
		}
	}
	if best == nil {
		return "", false
	}
	return best.ID, true
}
