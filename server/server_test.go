package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/remote"
	"github.com/etnz/folio/watchlist"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source is an in memory portfolio and watchlist backend.
type source struct {
	mu        sync.Mutex
	holdings  []folio.Holding
	quotes    []folio.PerformanceQuote
	mutations []folio.Mutation
	items     []watchlist.Item
	sectors   []watchlist.Sector
}

func (s *source) Holdings(context.Context) ([]folio.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]folio.Holding(nil), s.holdings...), nil
}

func (s *source) Performance(context.Context) (folio.Performance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return folio.Performance{Assets: s.quotes}, nil
}

func (s *source) History(context.Context) ([]folio.HistoryPoint, error) {
	return nil, folio.ErrNoHistory
}

func (s *source) Mutate(_ context.Context, m folio.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations = append(s.mutations, m)
	if m.Action == folio.Buy {
		s.holdings = append(s.holdings, folio.Holding{ID: "9", Symbol: m.Symbol, AssetType: string(m.Type), Quantity: m.Quantity, BuyPrice: folio.M(10, "USD"), BuyTime: m.PurchaseDate.Time()})
	}
	return nil
}

func (s *source) Watchlist(context.Context) ([]watchlist.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]watchlist.Item(nil), s.items...), nil
}

func (s *source) Sectors(context.Context) ([]watchlist.Sector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]watchlist.Sector(nil), s.sectors...), nil
}

func (s *source) Watch(_ context.Context, item watchlist.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func (s *source) Unwatch(_ context.Context, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.Symbol == symbol {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return &remote.APIError{StatusCode: http.StatusNotFound, Message: "not watched"}
}

func (s *source) SectorCatalog(context.Context) ([]string, error) {
	return nil, &remote.APIError{StatusCode: http.StatusInternalServerError}
}

func (s *source) Track(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors = append(s.sectors, watchlist.Sector{Name: name})
	return nil
}

func (s *source) Untrack(context.Context, string) error { return nil }

func (s *source) Quote(_ context.Context, symbol string) (watchlist.Quote, error) {
	return watchlist.Quote{Symbol: symbol, Price: 101.5}, nil
}

// provider returns one article per symbol.
type provider struct{}

func (provider) CompanyNews(_ context.Context, symbol string, _ date.Window) ([]watchlist.NewsItem, error) {
	return []watchlist.NewsItem{{
		ID:          symbol,
		URL:         "https://news.example/" + symbol,
		Headline:    symbol + " beats estimates",
		Related:     symbol,
		PublishedAt: time.Now(),
	}}, nil
}

func (provider) GeneralNews(context.Context) ([]watchlist.NewsItem, error) { return nil, nil }

func newTestServer(t *testing.T) (*Server, *source, *[]folio.Money) {
	t.Helper()
	src := &source{
		holdings: []folio.Holding{
			{ID: "1", Symbol: "AAPL", AssetType: "STOCK", Quantity: folio.Q(2), BuyPrice: folio.M(100, "USD"), BuyTime: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "2", Symbol: "AAPL", AssetType: "STOCK", Quantity: folio.Q(1), BuyPrice: folio.M(120, "USD"), BuyTime: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
		quotes: []folio.PerformanceQuote{
			{ID: "1", CurrentPrice: folio.M(150, "USD")},
			{ID: "2", CurrentPrice: folio.M(150, "USD")},
		},
	}
	log := zerolog.Nop()
	engine := folio.NewEngine(src, folio.NewCashLedger(folio.M(1000, "USD")), log)
	tracker := watchlist.NewTracker(src, watchlist.NewAggregator(provider{}, watchlist.Options{}, log), log)

	var saved []folio.Money
	s, err := New(Config{
		Log:       log,
		Engine:    engine,
		News:      tracker,
		Watchlist: src,
		SaveCash:  func(m folio.Money) error { saved = append(saved, m); return nil },
	})
	require.NoError(t, err)
	return s, src, &saved
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type money struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPortfolio(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Holdings []struct {
			ID           string `json:"id"`
			CurrentValue money  `json:"currentValue"`
		} `json:"holdings"`
		Summary struct {
			MarketValue money `json:"marketValue"`
			Positions   int   `json:"positions"`
		} `json:"summary"`
		Cash money `json:"cash"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Holdings, 2)
	assert.True(t, decimal.NewFromInt(300).Equal(got.Holdings[0].CurrentValue.Amount))
	assert.True(t, decimal.NewFromInt(450).Equal(got.Summary.MarketValue.Amount))
	assert.Equal(t, 2, got.Summary.Positions)
	assert.Equal(t, "USD", got.Cash.Currency)
}

func TestHistory(t *testing.T) {
	s, _, _ := newTestServer(t)

	t.Run("portfolio", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/portfolio/history", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var points []struct{ Label string }
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
		require.Len(t, points, 3)
		assert.Equal(t, "2025-01-02", points[0].Label)
		assert.Equal(t, folio.NowLabel, points[2].Label)
	})
	t.Run("symbol", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/portfolio/history?symbol=aapl", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var points []struct{ Label string }
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
		assert.Len(t, points, 4, "two points per lot")
	})
}

func TestMutations(t *testing.T) {
	t.Run("buy", func(t *testing.T) {
		s, src, _ := newTestServer(t)
		rec := do(t, s, http.MethodPost, "/api/portfolio/buy", `{"symbol":"msft","quantity":"3","purchaseDate":"2025-01-06"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, src.mutations, 1)
		m := src.mutations[0]
		assert.Equal(t, "MSFT", m.Symbol)
		assert.Equal(t, folio.Stock, m.Type)
		assert.Equal(t, date.New(2025, time.January, 6), m.PurchaseDate)
		assert.Contains(t, rec.Body.String(), `"symbol":"MSFT"`)
	})
	t.Run("invalid buy", func(t *testing.T) {
		s, src, _ := newTestServer(t)
		rec := do(t, s, http.MethodPost, "/api/portfolio/buy", `{"symbol":"MSFT","quantity":"0","purchaseDate":"2025-01-06"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, src.mutations)
	})
	t.Run("malformed body", func(t *testing.T) {
		s, _, _ := newTestServer(t)
		rec := do(t, s, http.MethodPost, "/api/portfolio/buy", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("sell oldest lot", func(t *testing.T) {
		s, src, _ := newTestServer(t)
		require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/portfolio", "").Code)
		rec := do(t, s, http.MethodPost, "/api/portfolio/sell", `{"symbol":"AAPL","quantity":"1"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, src.mutations, 1)
		assert.Equal(t, "1", src.mutations[0].ID)
	})
	t.Run("sell unknown symbol", func(t *testing.T) {
		s, _, _ := newTestServer(t)
		require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/portfolio", "").Code)
		rec := do(t, s, http.MethodPost, "/api/portfolio/sell", `{"symbol":"TSLA","quantity":"1"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCash(t *testing.T) {
	s, _, saved := newTestServer(t)

	cash := func(rec *httptest.ResponseRecorder) decimal.Decimal {
		t.Helper()
		var got struct{ Cash money }
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		return got.Cash.Amount
	}

	rec := do(t, s, http.MethodPost, "/api/cash/add", `{"amount":250}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decimal.NewFromInt(1250).Equal(cash(rec)))

	rec = do(t, s, http.MethodPost, "/api/cash/remove", `{"amount":5000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cash(rec).IsZero(), "the balance is clamped at zero")

	rec = do(t, s, http.MethodPost, "/api/cash/add", `{"amount":-3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/cash", "")
	assert.True(t, cash(rec).IsZero())
	assert.Len(t, *saved, 2)
}

func TestWatchlistRefreshesNews(t *testing.T) {
	s, _, _ := newTestServer(t)

	var feed watchlist.Feed
	rec := do(t, s, http.MethodGet, "/api/news", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.False(t, feed.Live, "placeholders while nothing is watched")

	rec = do(t, s, http.MethodPost, "/api/watchlist", `{"symbol":"nvda"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/news", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.True(t, feed.Live)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "NVDA", feed.Items[0].Tag)

	rec = do(t, s, http.MethodDelete, "/api/watchlist/MSFT", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/watchlist/NVDA", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSectors(t *testing.T) {
	s, src, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/sectors", `{"name":"real estate"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Real Estate", src.sectors[0].Name)

	rec = do(t, s, http.MethodGet, "/api/sectors/catalog", "")
	var catalog []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, watchlist.Catalog, catalog)
}

func TestQuote(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/watchlist/quote/MSFT", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"symbol":"MSFT","price":101.5}`, rec.Body.String())
}

func TestInvalidSchedule(t *testing.T) {
	_, err := New(Config{Log: zerolog.Nop(), RefreshSchedule: "every now and then"})
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	s, src, _ := newTestServer(t)
	require.NoError(t, s.Refresh(context.Background()))
	src.holdings = src.holdings[:1]
	require.NoError(t, s.Refresh(context.Background()))
	assert.Len(t, s.engine.Last().Holdings, 1)
}
