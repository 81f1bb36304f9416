package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio/watchlist"
)

var _ watchlist.Source = (*Client)(nil)

// Watchlist returns the watched symbols.
func (c *Client) Watchlist(ctx context.Context) ([]watchlist.Item, error) {
	var raw []watchItem
	if err := c.do(ctx, http.MethodGet, "/watchlist", nil, &raw); err != nil {
		return nil, err
	}
	items := make([]watchlist.Item, 0, len(raw))
	for _, w := range raw {
		if strings.TrimSpace(w.Symbol) == "" {
			continue
		}
		items = append(items, watchlist.Item{Symbol: strings.ToUpper(w.Symbol), AssetType: w.AssetType})
	}
	return items, nil
}

// Watch adds symbol to the watchlist.
func (c *Client) Watch(ctx context.Context, item watchlist.Item) error {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(item.Symbol))
	q.Set("type", item.AssetType)
	return c.do(ctx, http.MethodPost, "/watchlist/add", q, nil)
}

// Unwatch removes symbol from the watchlist.
func (c *Client) Unwatch(ctx context.Context, symbol string) error {
	return c.do(ctx, http.MethodDelete, "/watchlist/remove/"+url.PathEscape(strings.ToUpper(symbol)), nil, nil)
}

// Sectors returns the tracked sectors.
func (c *Client) Sectors(ctx context.Context) ([]watchlist.Sector, error) {
	var raw []sector
	if err := c.do(ctx, http.MethodGet, "/watchlist/sectors", nil, &raw); err != nil {
		return nil, err
	}
	sectors := make([]watchlist.Sector, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		sectors = append(sectors, watchlist.Sector{ID: string(s.ID), Name: s.Name})
	}
	return sectors, nil
}

// SectorCatalog returns the sectors the backend can track.
func (c *Client) SectorCatalog(ctx context.Context) ([]string, error) {
	var catalog []string
	if err := c.do(ctx, http.MethodGet, "/watchlist/sectors/catalog", nil, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Track starts tracking a sector.
func (c *Client) Track(ctx context.Context, name string) error {
	q := url.Values{}
	q.Set("name", watchlist.NormalizeSector(name))
	return c.do(ctx, http.MethodPost, "/watchlist/sectors/add", q, nil)
}

// Untrack stops tracking a sector.
func (c *Client) Untrack(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/watchlist/sectors/remove/"+url.PathEscape(name), nil, nil)
}

// Quote returns the latest price of symbol. The price is read with the first
// of PricePaths that resolves to a number.
func (c *Client) Quote(ctx context.Context, symbol string) (watchlist.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var v any
	if err := c.do(ctx, http.MethodGet, "/watchlist/quote/"+url.PathEscape(symbol), nil, &v); err != nil {
		return watchlist.Quote{}, err
	}
	q := watchlist.Quote{Symbol: symbol}
	price, ok := c.number(v, c.PricePaths...)
	if !ok {
		return q, fmt.Errorf("no price in quote for %s", symbol)
	}
	q.Price = price
	q.Change, _ = c.number(v, "$.change")
	q.ChangePercent, _ = c.number(v, "$.changePercent")
	return q, nil
}

// number returns the first value found at paths that is a number.
func (c *Client) number(v any, paths ...string) (float64, bool) {
	for _, p := range paths {
		x, err := jsonpath.Get(p, v)
		if err != nil {
			continue
		}
		if f, ok := x.(float64); ok {
			return f, true
		}
	}
	return 0, false
}
