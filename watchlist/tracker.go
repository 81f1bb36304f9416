package watchlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Tracker keeps the news feed of the watchlist up to date.
type Tracker struct {
	src Source
	agg *Aggregator
	log zerolog.Logger

	refresh sync.Mutex // one refresh at a time

	mu   sync.RWMutex
	last *Feed
}

// NewTracker returns a Tracker reading the watchlist from src.
func NewTracker(src Source, agg *Aggregator, log zerolog.Logger) *Tracker {
	return &Tracker{src: src, agg: agg, log: log.With().Str("component", "tracker").Logger()}
}

// Feed returns the last feed, refreshing it if there is none yet.
func (t *Tracker) Feed(ctx context.Context) Feed {
	t.mu.RLock()
	last := t.last
	t.mu.RUnlock()
	if last != nil {
		return *last
	}
	return t.Refresh(ctx)
}

// Refresh fetches the watchlist and tracked sectors, then aggregates their news.
//
// If the watchlist cannot be fetched the previous feed is kept, or
// placeholders are used, with an advisory.
func (t *Tracker) Refresh(ctx context.Context) Feed {
	t.refresh.Lock()
	defer t.refresh.Unlock()

	var (
		items   []Item
		sectors []Sector
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = t.src.Watchlist(gctx)
		if err != nil {
			return fmt.Errorf("fetching watchlist: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		sectors, err = t.src.Sectors(gctx)
		if err != nil {
			return fmt.Errorf("fetching sectors: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.log.Warn().Err(err).Msg("watchlist unavailable")
		t.mu.RLock()
		last := t.last
		t.mu.RUnlock()
		if last != nil {
			f := *last
			f.Advisory = AdvisoryNews
			return f
		}
		return Feed{Items: Placeholder(t.agg.now()), Advisory: AdvisoryNews}
	}

	symbols := make([]string, 0, len(items))
	for _, it := range items {
		symbols = append(symbols, it.Symbol)
	}
	names := make([]string, 0, len(sectors))
	for _, s := range sectors {
		names = append(names, s.Name)
	}
	feed := t.agg.Aggregate(ctx, symbols, names)

	t.mu.Lock()
	t.last = &feed
	t.mu.Unlock()
	return feed
}
