package folio

import (
	"slices"
	"time"
)

// NowLabel is the label of the point closing a synthesized series.
const NowLabel = "Now"

// HistoryPoint is one value of the portfolio over time.
type HistoryPoint struct {
	Time     time.Time // zero when the source only gave a label
	Label    string
	Value    Money
	Invested Money // optional
}

func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("time", p.Time)
	w.Append("label", p.Label)
	w.Append("value", p.Value)
	if !p.Invested.IsZero() {
		w.Append("invested", p.Invested)
	}
	return w.MarshalJSON()
}

// SynthesizeHistory returns supplied unchanged when it is not nil.
//
// Otherwise it builds a series from purchase times: for each distinct buy
// time, in ascending order, the cost basis of every lot bought at or before
// it, plus cash. The series ends with a point at now worth the current total
// value (market value plus cash). Buy times after now are ignored. Without
// any buy time the series is that single closing point, or empty when the
// current total is not positive.
func SynthesizeHistory(supplied []HistoryPoint, merged []MergedHolding, cash Money, now time.Time) []HistoryPoint {
	if supplied != nil {
		return supplied
	}

	total := cash
	for _, m := range merged {
		total = total.Add(m.CurrentValue)
	}
	closing := HistoryPoint{Time: now, Label: NowLabel, Value: total}

	var times []time.Time
	for _, m := range merged {
		t := m.BuyTime
		if t.IsZero() || t.After(now) {
			continue
		}
		if !slices.ContainsFunc(times, t.Equal) {
			times = append(times, t)
		}
	}
	if len(times) == 0 {
		if !total.IsPositive() {
			return []HistoryPoint{}
		}
		return []HistoryPoint{closing}
	}
	slices.SortStableFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	series := make([]HistoryPoint, 0, len(times)+1)
	for _, t := range times {
		invested := Money{cur: cash.cur}
		for _, m := range merged {
			if m.BuyTime.IsZero() || m.BuyTime.After(t) {
				continue
			}
			// cost basis of the lot, the merged invested amount when the lot has no price.
			invested = invested.Add(firstNonZero(m.Invested, m.CostBasis()))
		}
		series = append(series, HistoryPoint{
			Time:     t,
			Label:    t.Format(time.DateOnly),
			Value:    invested.Add(cash),
			Invested: invested,
		})
	}
	return append(series, closing)
}

// AssetHistory is the two points series of a single lot: what was invested
// and what it is worth now. It is empty when both are zero.
func AssetHistory(m MergedHolding, now time.Time) []HistoryPoint {
	if m.Invested.IsZero() && m.CurrentValue.IsZero() {
		return []HistoryPoint{}
	}
	return []HistoryPoint{
		{Time: m.BuyTime, Label: "Buy", Value: m.Invested, Invested: m.Invested},
		{Time: now, Label: NowLabel, Value: m.CurrentValue, Invested: m.Invested},
	}
}
