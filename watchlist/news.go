package watchlist

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AdvisoryNews is attached to a Feed when live news could not be loaded.
const AdvisoryNews = "could not load live news"

// NewsItem is a news article.
type NewsItem struct {
	ID          string    `json:"id,omitempty"`
	URL         string    `json:"url,omitempty"`
	Tag         string    `json:"tag"` // symbol or sector the item was selected for
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary,omitempty"`
	Image       string    `json:"image,omitempty"`
	Source      string    `json:"source,omitempty"`
	Related     string    `json:"related,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Key identifies an article across queries: its link, or its id.
func (n NewsItem) Key() string {
	if n.URL != "" {
		return n.URL
	}
	return n.ID
}

// Provider is a news service.
type Provider interface {
	// CompanyNews returns the articles about symbol published within w.
	CompanyNews(ctx context.Context, symbol string, w date.Window) ([]NewsItem, error)
	// GeneralNews returns the latest market wide articles.
	GeneralNews(ctx context.Context) ([]NewsItem, error)
}

// Options tune the aggregation. Zero fields take their default.
type Options struct {
	WindowDays     int                 // days of company news, 7
	PerSymbol      int                 // items kept per symbol, 3
	PerSector      int                 // items kept per sector, 3
	Limit          int                 // size of the feed, 12
	MaxConcurrency int                 // concurrent requests, unlimited when 0
	Keywords       map[string][]string // sector synonyms, DefaultKeywords
}

func (o Options) withDefaults() Options {
	o.WindowDays = cmp.Or(o.WindowDays, 7)
	o.PerSymbol = cmp.Or(o.PerSymbol, 3)
	o.PerSector = cmp.Or(o.PerSector, 3)
	o.Limit = cmp.Or(o.Limit, 12)
	if o.Keywords == nil {
		o.Keywords = DefaultKeywords
	}
	return o
}

// Feed is the result of an aggregation.
type Feed struct {
	Items    []NewsItem `json:"items"`
	Live     bool       `json:"live"` // false for placeholders
	Advisory string     `json:"advisory,omitempty"`
}

// Aggregator builds a news feed for symbols and sectors.
type Aggregator struct {
	provider Provider // nil when there is no credential
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

// NewAggregator returns an Aggregator. A nil provider always yields placeholders.
func NewAggregator(p Provider, opts Options, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		provider: p,
		opts:     opts.withDefaults(),
		log:      log.With().Str("component", "news").Logger(),
		now:      time.Now,
	}
}

// Aggregate returns the ranked news feed for symbols and sectors.
//
// Each symbol gets its own request, and a single general news request is
// shared by all sectors; they all run concurrently. The feed is all or
// nothing: if any request fails the placeholders are returned with an
// advisory.
func (a *Aggregator) Aggregate(ctx context.Context, symbols, sectors []string) Feed {
	symbols = uniq(symbols, strings.ToUpper)
	sectors = uniq(sectors, NormalizeSector)
	if a.provider == nil || (len(symbols) == 0 && len(sectors) == 0) {
		return Feed{Items: Placeholder(a.now())}
	}

	window := date.Trailing(date.Of(a.now()), a.opts.WindowDays)
	bySymbol := make([][]NewsItem, len(symbols))
	var general []NewsItem

	g, gctx := errgroup.WithContext(ctx)
	if a.opts.MaxConcurrency > 0 {
		g.SetLimit(a.opts.MaxConcurrency)
	}
	for i, symbol := range symbols {
		g.Go(func() error {
			items, err := a.provider.CompanyNews(gctx, symbol, window)
			if err != nil {
				return fmt.Errorf("news for %s: %w", symbol, err)
			}
			bySymbol[i] = scope(items, symbol, a.opts.PerSymbol, matchSymbol(symbol))
			return nil
		})
	}
	if len(sectors) > 0 {
		g.Go(func() (err error) {
			general, err = a.provider.GeneralNews(gctx)
			if err != nil {
				return fmt.Errorf("general news: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.log.Warn().Err(err).Msg("live news unavailable")
		return Feed{Items: Placeholder(a.now()), Advisory: AdvisoryNews}
	}

	var merged []NewsItem
	for _, items := range bySymbol {
		merged = append(merged, items...)
	}
	for _, sector := range sectors {
		merged = append(merged, scope(general, sector, a.opts.PerSector, a.matchSector(sector))...)
	}

	seen := make(map[string]bool, len(merged))
	feed := make([]NewsItem, 0, len(merged))
	for _, n := range merged {
		k := n.Key()
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		feed = append(feed, n)
	}
	sortRecentFirst(feed)
	if len(feed) > a.opts.Limit {
		feed = feed[:a.opts.Limit]
	}
	a.log.Debug().Int("symbols", len(symbols)).Int("sectors", len(sectors)).Int("items", len(feed)).Msg("news aggregated")
	return Feed{Items: feed, Live: true}
}

// scope keeps the n most recent items matching, or of all items when none
// matches, tagged with tag.
func scope(items []NewsItem, tag string, n int, match func(NewsItem) bool) []NewsItem {
	selected := make([]NewsItem, 0, len(items))
	for _, it := range items {
		if match(it) {
			selected = append(selected, it)
		}
	}
	if len(selected) == 0 {
		selected = append(selected, items...)
	}
	sortRecentFirst(selected)
	if len(selected) > n {
		selected = selected[:n]
	}
	for i := range selected {
		selected[i].Tag = tag
	}
	return selected
}

func matchSymbol(symbol string) func(NewsItem) bool {
	return func(n NewsItem) bool {
		return strings.Contains(strings.ToUpper(n.Related), symbol) ||
			strings.Contains(strings.ToUpper(n.Headline), symbol) ||
			strings.Contains(strings.ToUpper(n.Summary), symbol)
	}
}

func (a *Aggregator) matchSector(sector string) func(NewsItem) bool {
	words := []string{strings.ToUpper(sector)}
	for _, k := range a.opts.Keywords[sector] {
		words = append(words, strings.ToUpper(k))
	}
	return func(n NewsItem) bool {
		text := strings.ToUpper(n.Headline + " " + n.Summary)
		return slices.ContainsFunc(words, func(w string) bool { return strings.Contains(text, w) })
	}
}

func sortRecentFirst(items []NewsItem) {
	slices.SortStableFunc(items, func(a, b NewsItem) int { return b.PublishedAt.Compare(a.PublishedAt) })
}

// uniq returns the distinct non empty values of in, after canonicalization.
func uniq(in []string, canonical func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = canonical(strings.TrimSpace(s))
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
