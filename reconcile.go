package folio

import "strings"

// MergeKey identifies the quote that belongs to a lot. It is either a ByID or
// a BySymbol.
type MergeKey interface {
	mergeKey()
}

// ByID keys a quote by the lot id.
type ByID string

// BySymbol keys a quote by its uppercase symbol.
type BySymbol string

func (ByID) mergeKey()     {}
func (BySymbol) mergeKey() {}

// keyStrategy decides which MergeKey a batch uses.
type keyStrategy int

const (
	keyByID keyStrategy = iota
	keyBySymbol
)

// chooseStrategy keys by id only when every quote carries one.
func chooseStrategy(quotes []PerformanceQuote) keyStrategy {
	for _, q := range quotes {
		if q.ID == "" {
			return keyBySymbol
		}
	}
	return keyByID
}

func (s keyStrategy) key(id, symbol string) (MergeKey, bool) {
	switch s {
	case keyByID:
		if id == "" {
			return nil, false
		}
		return ByID(id), true
	default:
		sym := canonicalSymbol(symbol)
		if sym == "" {
			return nil, false
		}
		return BySymbol(sym), true
	}
}

// wellFormed reports whether a quote can be keyed at all.
func wellFormed(q PerformanceQuote) bool {
	return q.ID != "" || strings.TrimSpace(q.Symbol) != ""
}

// Reconcile merges holdings with their quotes.
//
// The result has one entry per holding, in the holdings order. Quote fields
// win when present; missing ones are derived from the lot:
// invested = buyPrice x quantity, currentValue = currentPrice x quantity and
// pnl = currentValue - invested. Quotes without any key are ignored. When two
// quotes share a key the last one wins.
func Reconcile(holdings []Holding, quotes []PerformanceQuote) []MergedHolding {
	valid := make([]PerformanceQuote, 0, len(quotes))
	for _, q := range quotes {
		if wellFormed(q) {
			valid = append(valid, q)
		}
	}
	strategy := chooseStrategy(valid)

	lookup := make(map[MergeKey]PerformanceQuote, len(valid))
	for _, q := range valid {
		if k, ok := strategy.key(q.ID, q.Symbol); ok {
			lookup[k] = q
		}
	}

	merged := make([]MergedHolding, 0, len(holdings))
	for _, h := range holdings {
		var q PerformanceQuote
		found := false
		if k, ok := strategy.key(h.ID, h.Symbol); ok {
			q, found = lookup[k]
		}
		merged = append(merged, merge(h, q, found))
	}
	return merged
}

// merge applies the field precedence for one lot. q is the zero value when
// no quote was found.
func merge(h Holding, q PerformanceQuote, found bool) MergedHolding {
	h.Symbol = canonicalSymbol(h.Symbol)
	// the lot is the reference for what is held, the quote only fills gaps.
	h.Quantity = firstNonZero(q.Quantity, h.Quantity)
	h.BuyPrice = firstNonZero(q.BuyPrice, h.BuyPrice)

	// the quote's class wins, the lot's raw label is the fallback.
	var quoted AssetType
	if strings.TrimSpace(q.Type) != "" {
		quoted = NormalizeType(q.Type)
	}
	typ := firstNonZero(NormalizeType(h.AssetType), quoted)

	price := q.CurrentPrice
	invested := firstNonZero(h.CostBasis(), q.Invested)
	value := firstNonZero(price.Mul(h.Quantity), q.CurrentValue)
	pnl := firstNonZero(value.Sub(invested), q.PnL)
	pnlPercent := firstNonZero(ratio(pnl, invested), q.PnLPercent)

	return MergedHolding{
		Holding:      h,
		Type:         typ,
		CurrentPrice: price,
		Invested:     invested,
		CurrentValue: value,
		PnL:          pnl,
		PnLPercent:   pnlPercent,
		Quoted:       found,
	}
}
