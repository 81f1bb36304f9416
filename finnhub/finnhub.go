// Package finnhub fetches company and market news from finnhub.io.
package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/watchlist"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the finnhub API root.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Client is a news provider backed by finnhub.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Options configure a Client.
type Options struct {
	BaseURL  string        // DefaultBaseURL if empty
	CacheTTL time.Duration // responses are reused for that long, no cache if 0
	CacheDir string        // os.TempDir()/folio if empty
}

var _ watchlist.Provider = (*Client)(nil)

// New returns a finnhub client authenticated with token.
func New(token string, opts Options, log zerolog.Logger) *Client {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	dir := opts.CacheDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "folio")
	}
	return &Client{
		baseURL: base,
		token:   token,
		http:    newCachingClient(dir, opts.CacheTTL, log.With().Str("component", "finnhub").Logger()),
	}
}

// article is a finnhub news item.
type article struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

func (a article) item() watchlist.NewsItem {
	n := watchlist.NewsItem{
		URL:      a.URL,
		Headline: a.Headline,
		Summary:  a.Summary,
		Image:    a.Image,
		Source:   a.Source,
		Related:  a.Related,
	}
	if a.ID != 0 {
		n.ID = strconv.FormatInt(a.ID, 10)
	}
	if a.Datetime > 0 {
		n.PublishedAt = time.Unix(a.Datetime, 0).UTC()
	}
	return n
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values) ([]watchlist.NewsItem, error) {
	q.Set("token", c.token)
	var articles []article
	if err := jwget(ctx, c.http, c.baseURL+path+"?"+q.Encode(), &articles); err != nil {
		return nil, fmt.Errorf("finnhub %s: %w", path, err)
	}
	items := make([]watchlist.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, a.item())
	}
	return items, nil
}

// CompanyNews returns the news about symbol published within w.
func (c *Client) CompanyNews(ctx context.Context, symbol string, w date.Window) ([]watchlist.NewsItem, error) {
	// https://finnhub.io/api/v1/company-news?symbol=AAPL&from=2025-01-01&to=2025-01-08&token=demo
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", w.From.String())
	q.Set("to", w.To.String())
	return c.fetch(ctx, "/company-news", q)
}

// GeneralNews returns the latest general market news.
func (c *Client) GeneralNews(ctx context.Context) ([]watchlist.NewsItem, error) {
	// https://finnhub.io/api/v1/news?category=general&token=demo
	q := url.Values{}
	q.Set("category", "general")
	return c.fetch(ctx, "/news", q)
}
