package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/folio"
)

var _ folio.DataSource = (*Client)(nil)

// Holdings returns the lots. Malformed lots are skipped.
func (c *Client) Holdings(ctx context.Context) ([]folio.Holding, error) {
	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/portfolio", nil, &raw); err != nil {
		return nil, err
	}
	holdings := make([]folio.Holding, 0, len(raw))
	for _, r := range raw {
		var a asset
		if err := json.Unmarshal(r, &a); err != nil {
			c.log.Warn().Err(err).RawJSON("lot", r).Msg("skipping malformed lot")
			continue
		}
		if strings.TrimSpace(a.Symbol) == "" || a.Quantity.IsNegative() || a.BuyPrice.IsNegative() {
			c.log.Warn().RawJSON("lot", r).Msg("skipping invalid lot")
			continue
		}
		holdings = append(holdings, folio.Holding{
			ID:        string(a.ID),
			Symbol:    strings.ToUpper(strings.TrimSpace(a.Symbol)),
			AssetType: a.AssetType,
			Quantity:  folio.Q(a.Quantity),
			BuyPrice:  folio.M(a.BuyPrice, c.Currency),
			BuyTime:   a.BuyTime.Time,
		})
	}
	return holdings, nil
}

// Performance returns the valuation of the portfolio. Malformed quotes are skipped.
func (c *Client) Performance(ctx context.Context) (folio.Performance, error) {
	var p performance
	if err := c.do(ctx, http.MethodGet, "/portfolio/value", nil, &p); err != nil {
		return folio.Performance{}, err
	}
	perf := folio.Performance{
		TotalInvested:     folio.M(p.TotalInvested, c.Currency),
		CurrentValue:      folio.M(p.CurrentValue, c.Currency),
		ProfitLoss:        folio.M(p.ProfitLoss, c.Currency),
		ProfitLossPercent: folio.Percent(p.ProfitLossPercent.InexactFloat64()),
		Assets:            make([]folio.PerformanceQuote, 0, len(p.Assets)),
	}
	for _, r := range p.Assets {
		var a assetPerformance
		if err := json.Unmarshal(r, &a); err != nil {
			c.log.Warn().Err(err).RawJSON("quote", r).Msg("skipping malformed quote")
			continue
		}
		perf.Assets = append(perf.Assets, folio.PerformanceQuote{
			ID:           string(a.ID),
			Symbol:       a.Symbol,
			Type:         a.Type,
			Quantity:     folio.Q(a.Quantity),
			BuyPrice:     folio.M(a.BuyPrice, c.Currency),
			CurrentPrice: folio.M(a.CurrentPrice, c.Currency),
			Invested:     folio.M(a.Invested, c.Currency),
			CurrentValue: folio.M(a.CurrentValue, c.Currency),
			PnL:          folio.M(a.PnL, c.Currency),
			PnLPercent:   folio.Percent(a.PnLPercent.InexactFloat64()),
		})
	}
	return perf, nil
}

// History returns the value series, or folio.ErrNoHistory when the backend
// does not serve one.
func (c *Client) History(ctx context.Context) ([]folio.HistoryPoint, error) {
	var raw []historyPoint
	err := c.do(ctx, http.MethodGet, "/portfolio/history", nil, &raw)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
		return nil, folio.ErrNoHistory
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, folio.ErrNoHistory
	}
	points := make([]folio.HistoryPoint, 0, len(raw))
	for _, p := range raw {
		// labels that are not dates have no time
		t, _ := parseTimestamp(p.Date)
		points = append(points, folio.HistoryPoint{
			Time:     t,
			Label:    p.Date,
			Value:    folio.M(p.Value, c.Currency),
			Invested: folio.M(p.Invested, c.Currency),
		})
	}
	return points, nil
}

// Mutate adds a lot (POST /portfolio/add) or removes one (DELETE /portfolio/remove/{id}).
// The backend removes the whole lot on sell.
func (c *Client) Mutate(ctx context.Context, m folio.Mutation) error {
	switch m.Action {
	case folio.Buy:
		q := url.Values{}
		q.Set("symbol", m.Symbol)
		q.Set("type", string(m.Type))
		q.Set("quantity", m.Quantity.String())
		q.Set("buyTime", m.PurchaseDate.Time().Format("2006-01-02T15:04:05"))
		return c.do(ctx, http.MethodPost, "/portfolio/add", q, nil)
	case folio.Sell:
		if m.ID == "" {
			return fmt.Errorf("%w: sell requires a lot id", folio.ErrInvalidMutation)
		}
		return c.do(ctx, http.MethodDelete, "/portfolio/remove/"+url.PathEscape(m.ID), nil, nil)
	default:
		return fmt.Errorf("%w: unknown action %q", folio.ErrInvalidMutation, m.Action)
	}
}
