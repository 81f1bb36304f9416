package watchlist

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	items   []Item
	sectors []Sector
	err     error
}

func (f *fakeSource) Watchlist(ctx context.Context) ([]Item, error) { return f.items, f.err }
func (f *fakeSource) Sectors(ctx context.Context) ([]Sector, error)  { return f.sectors, nil }

func TestTracker(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		items:   []Item{{Symbol: "NVDA", AssetType: "STOCK"}},
		sectors: []Sector{{ID: "1", Name: "Energy"}},
	}
	p := &fakeProvider{
		company: map[string][]NewsItem{"NVDA": {article("n1", "NVDA record", 1)}},
		general: []NewsItem{article("g1", "Gas storage", 2)},
	}
	tr := NewTracker(src, newTestAggregator(p, Options{}), zerolog.Nop())

	feed := tr.Feed(ctx)
	require.True(t, feed.Live)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "NVDA", feed.Items[0].Tag)
	assert.Equal(t, "Energy", feed.Items[1].Tag)

	// cached
	tr.Feed(ctx)
	assert.Len(t, p.requests, 2)

	t.Run("watchlist failure keeps the last feed", func(t *testing.T) {
		src.err = errors.New("connection reset")
		got := tr.Refresh(ctx)
		assert.Equal(t, AdvisoryNews, got.Advisory)
		assert.Equal(t, feed.Items, got.Items)
	})
}

func TestTrackerFailureWithoutFeed(t *testing.T) {
	tr := NewTracker(&fakeSource{err: errors.New("down")}, newTestAggregator(&fakeProvider{}, Options{}), zerolog.Nop())
	got := tr.Refresh(context.Background())
	assert.False(t, got.Live)
	assert.Equal(t, AdvisoryNews, got.Advisory)
	assert.Len(t, got.Items, 3)
}
