package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// id decodes an identifier sent either as a JSON number or string.
type id string

func (i *id) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = id(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*i = id(n.String())
	return nil
}

// timestamp decodes the backend local date times ("2024-01-05T10:30:00") as
// well as RFC 3339 ones and plain dates.
type timestamp struct{ time.Time }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// null, or a non string
		if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
			return nil
		}
		return err
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, ok := parseTimestamp(s)
	if !ok {
		return fmt.Errorf("invalid timestamp %q", s)
	}
	t.Time = v
	return nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

// asset is a lot as returned by GET /portfolio.
type asset struct {
	ID        id              `json:"id"`
	Symbol    string          `json:"symbol"`
	AssetType string          `json:"assetType"`
	Quantity  decimal.Decimal `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	BuyTime   timestamp       `json:"buyTime"`
}

// assetPerformance is the valuation of a lot.
type assetPerformance struct {
	ID           id              `json:"id"`
	Symbol       string          `json:"symbol"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Invested     decimal.Decimal `json:"invested"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	PnL          decimal.Decimal `json:"pnl"`
	PnLPercent   decimal.Decimal `json:"pnlPercent"`
}

// performance is the body of GET /portfolio/value.
type performance struct {
	TotalInvested     decimal.Decimal   `json:"totalInvested"`
	CurrentValue      decimal.Decimal   `json:"currentValue"`
	ProfitLoss        decimal.Decimal   `json:"profitLoss"`
	ProfitLossPercent decimal.Decimal   `json:"profitLossPercent"`
	Assets            []json.RawMessage `json:"assets"`
}

// historyPoint is an element of GET /portfolio/history.
type historyPoint struct {
	Date     string          `json:"date"`
	Value    decimal.Decimal `json:"value"`
	Invested decimal.Decimal `json:"invested"`
}

// watchItem is an element of GET /watchlist.
type watchItem struct {
	ID        id     `json:"id"`
	Symbol    string `json:"symbol"`
	AssetType string `json:"assetType"`
}

// sector is an element of GET /watchlist/sectors.
type sector struct {
	ID   id     `json:"id"`
	Name string `json:"name"`
}
