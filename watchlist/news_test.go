package watchlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func hoursAgo(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }

// fakeProvider serves canned news and records requests.
type fakeProvider struct {
	mu       sync.Mutex
	company  map[string][]NewsItem
	general  []NewsItem
	fail     string // symbol failing, "general" for general news
	requests []string
	windows  []date.Window
}

func (f *fakeProvider) CompanyNews(ctx context.Context, symbol string, w date.Window) ([]NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, symbol)
	f.windows = append(f.windows, w)
	if f.fail == symbol {
		return nil, errors.New("429 too many requests")
	}
	return f.company[symbol], nil
}

func (f *fakeProvider) GeneralNews(ctx context.Context) ([]NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, "general")
	if f.fail == "general" {
		return nil, errors.New("503")
	}
	return f.general, nil
}

func newTestAggregator(p Provider, opts Options) *Aggregator {
	a := NewAggregator(p, opts, zerolog.Nop())
	a.now = func() time.Time { return now }
	return a
}

func article(url, headline string, age int) NewsItem {
	return NewsItem{URL: url, Headline: headline, PublishedAt: hoursAgo(age)}
}

func TestAggregatePlaceholders(t *testing.T) {
	t.Run("nothing tracked", func(t *testing.T) {
		p := &fakeProvider{}
		feed := newTestAggregator(p, Options{}).Aggregate(context.Background(), nil, nil)
		assert.False(t, feed.Live)
		assert.Empty(t, feed.Advisory)
		require.Len(t, feed.Items, 3)
		assert.Equal(t, "placeholder-1", feed.Items[0].ID)
		assert.Empty(t, p.requests)
	})

	t.Run("no credential", func(t *testing.T) {
		feed := newTestAggregator(nil, Options{}).Aggregate(context.Background(), []string{"AAPL"}, []string{"Energy"})
		assert.False(t, feed.Live)
		assert.Equal(t, Placeholder(now), feed.Items)
	})
}

func TestAggregateSymbols(t *testing.T) {
	p := &fakeProvider{company: map[string][]NewsItem{
		"AAPL": {
			article("a1", "Apple (AAPL) beats", 5),
			article("a2", "AAPL guidance", 1),
			article("a3", "Markets wrap", 0),
			article("a4", "AAPL buyback", 3),
			article("a5", "AAPL supply chain", 9),
		},
		"TSLA": {
			article("t1", "EV demand", 2),
			article("t2", "Rates", 4),
		},
	}}
	feed := newTestAggregator(p, Options{}).Aggregate(context.Background(), []string{"aapl", "TSLA", "AAPL"}, nil)
	require.True(t, feed.Live)

	var urls []string
	for _, n := range feed.Items {
		urls = append(urls, n.URL+":"+n.Tag)
	}
	// AAPL keeps its 3 most recent matching items, TSLA has no match and keeps all.
	assert.Equal(t, []string{"a2:AAPL", "t1:TSLA", "a4:AAPL", "t2:TSLA", "a1:AAPL"}, urls)
	assert.ElementsMatch(t, []string{"AAPL", "TSLA"}, p.requests, "one request per distinct symbol")
	for _, w := range p.windows {
		assert.Equal(t, "2025-03-03", w.From.String())
		assert.Equal(t, "2025-03-10", w.To.String())
	}
}

func TestAggregateRelatedField(t *testing.T) {
	related := article("r1", "Quarterly results", 1)
	related.Related = "msft,goog"
	p := &fakeProvider{company: map[string][]NewsItem{"MSFT": {related, article("r2", "Other", 0)}}}
	feed := newTestAggregator(p, Options{}).Aggregate(context.Background(), []string{"MSFT"}, nil)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "r1", feed.Items[0].URL)
}

func TestAggregateSectors(t *testing.T) {
	p := &fakeProvider{general: []NewsItem{
		article("g1", "Oil prices jump", 1),
		article("g2", "Utilities rally on grid spending", 2),
		article("g3", "Central bank holds", 3),
		{URL: "g4", Headline: "Quiet day", Summary: "Power demand rises", PublishedAt: hoursAgo(4)},
	}}
	feed := newTestAggregator(p, Options{}).Aggregate(context.Background(), nil, []string{"energy", "Space"})
	require.True(t, feed.Live)
	assert.Equal(t, []string{"general"}, p.requests)

	tags := map[string][]string{}
	for _, n := range feed.Items {
		tags[n.Tag] = append(tags[n.Tag], n.URL)
	}
	// Energy matches the sector keywords; Space matches nothing and falls back
	// to the 3 most recent items, already taken by Energy except g3.
	assert.Equal(t, []string{"g1", "g4"}, tags["Energy"])
	assert.Equal(t, []string{"g2", "g3"}, tags["Space"])
}

func TestAggregateCustomKeywords(t *testing.T) {
	p := &fakeProvider{general: []NewsItem{article("g1", "Lithium supply", 1), article("g2", "Nothing", 0)}}
	opts := Options{Keywords: map[string][]string{"Materials": {"lithium"}}}
	feed := newTestAggregator(p, opts).Aggregate(context.Background(), nil, []string{"Materials"})
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "g1", feed.Items[0].URL)
}

func TestAggregateDedup(t *testing.T) {
	shared := article("https://news/1", "AAPL and MSFT partner", 1)
	p := &fakeProvider{company: map[string][]NewsItem{
		"AAPL": {shared},
		"MSFT": {shared, article("", "no link", 0)},
	}}
	feed := newTestAggregator(p, Options{}).Aggregate(context.Background(), []string{"AAPL", "MSFT"}, nil)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "AAPL", feed.Items[0].Tag, "the first occurrence wins")
}

func TestAggregateLimit(t *testing.T) {
	company := map[string][]NewsItem{}
	var symbols []string
	for i := 0; i < 6; i++ {
		s := fmt.Sprintf("S%d", i)
		symbols = append(symbols, s)
		for j := 0; j < 3; j++ {
			company[s] = append(company[s], article(fmt.Sprintf("%s-%d", s, j), s, i*3+j))
		}
	}
	p := &fakeProvider{company: company}
	feed := newTestAggregator(p, Options{MaxConcurrency: 2}).Aggregate(context.Background(), symbols, nil)
	require.Len(t, feed.Items, 12)
	for i := 1; i < len(feed.Items); i++ {
		assert.False(t, feed.Items[i].PublishedAt.After(feed.Items[i-1].PublishedAt))
	}
	assert.Equal(t, "S0-0", feed.Items[0].URL)
}

func TestAggregateFailure(t *testing.T) {
	for _, fail := range []string{"TSLA", "general"} {
		t.Run(fail, func(t *testing.T) {
			p := &fakeProvider{fail: fail, company: map[string][]NewsItem{"AAPL": {article("a", "AAPL", 1)}}}
			feed := newTestAggregator(p, Options{}).Aggregate(context.Background(), []string{"AAPL", "TSLA"}, []string{"Energy"})
			assert.False(t, feed.Live)
			assert.Equal(t, AdvisoryNews, feed.Advisory)
			assert.Equal(t, Placeholder(now), feed.Items)
		})
	}
}

func TestNormalizeSector(t *testing.T) {
	tests := map[string]string{
		"technology":   "Technology",
		" REAL estate": "Real Estate",
		"crypto":       "Crypto",
		"SPACE":        "Space",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSector(in), in)
	}
}
