package folio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Advisory messages attached to a degraded Snapshot.
const (
	AdvisoryStale       = "could not load portfolio data, showing last known values"
	AdvisoryUnavailable = "could not load portfolio data"
)

// Snapshot is the reconciled state of the portfolio produced by one load
// cycle. It must not be modified.
type Snapshot struct {
	ID          string // load cycle id
	Taken       time.Time
	Holdings    []MergedHolding
	Cash        Money
	Totals      Totals
	Allocation  Allocation
	Summary     Summary
	Reported    Summary // totals as reported by the data source
	History     []HistoryPoint
	Synthesized bool // History was built locally
	Stale       bool // values come from an earlier cycle
	Advisory    string

	supplied []HistoryPoint // history as fetched, nil if none
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.ID)
	w.Append("taken", s.Taken)
	w.Append("holdings", s.Holdings)
	w.Append("cash", s.Cash)
	w.Append("totals", s.Totals)
	w.Append("allocation", s.Allocation)
	w.Append("summary", s.Summary)
	w.Append("reported", s.Reported)
	w.Append("history", s.History)
	w.Optional("synthesized", s.Synthesized)
	w.Optional("stale", s.Stale)
	w.Optional("advisory", s.Advisory)
	return w.MarshalJSON()
}

// Holding returns the merged lot with the given id.
func (s *Snapshot) Holding(id string) (MergedHolding, bool) {
	for _, m := range s.Holdings {
		if m.ID == id {
			return m, true
		}
	}
	return MergedHolding{}, false
}

// Engine loads the portfolio from a DataSource and derives every metric from
// it. It is safe for concurrent use.
type Engine struct {
	src  DataSource
	cash *CashLedger
	log  zerolog.Logger
	now  func() time.Time

	cycles coalescer[*Snapshot]

	mu   sync.RWMutex
	last *Snapshot
}

// NewEngine returns an Engine reading from src and adding cash from the ledger.
func NewEngine(src DataSource, cash *CashLedger, log zerolog.Logger) *Engine {
	e := &Engine{
		src:  src,
		cash: cash,
		log:  log.With().Str("component", "engine").Logger(),
		now:  time.Now,
	}
	e.cycles.run = e.cycle
	return e
}

// Cash returns the engine's cash ledger.
func (e *Engine) Cash() *CashLedger { return e.cash }

// Last returns the latest published snapshot, nil before the first load.
func (e *Engine) Last() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Load runs a load cycle and returns its snapshot.
//
// Overlapping calls are serialized: while a cycle runs, every new call waits
// for one shared follow-up cycle. When the data source fails the snapshot
// is the last known one (or an empty one) flagged Stale with an Advisory.
// The only error is ctx's, returned when ctx is done before a snapshot is.
func (e *Engine) Load(ctx context.Context) (*Snapshot, error) {
	return e.cycles.Do(ctx)
}

// cycle fetches holdings, performance and history concurrently, then reconciles.
func (e *Engine) cycle(ctx context.Context) *Snapshot {
	id := uuid.NewString()
	log := e.log.With().Str("cycle", id).Logger()
	start := e.now()

	var (
		holdings []Holding
		perf     Performance
		history  []HistoryPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		holdings, err = e.src.Holdings(gctx)
		if err != nil {
			return fmt.Errorf("fetching holdings: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		perf, err = e.src.Performance(gctx)
		if err != nil {
			return fmt.Errorf("fetching performance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		h, err := e.src.History(gctx)
		switch {
		case errors.Is(err, ErrNoHistory):
		case err != nil:
			log.Warn().Err(err).Msg("history unavailable, synthesizing")
		default:
			history = h
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("load failed")
		return e.fallback(id)
	}

	s := e.build(id, Reconcile(holdings, perf.Assets), history)
	s.Reported = Reported(perf)
	e.publish(s)
	log.Info().
		Int("holdings", len(s.Holdings)).
		Bool("synthesized", s.Synthesized).
		Dur("took", e.now().Sub(start)).
		Msg("portfolio loaded")
	return s
}

// build derives a snapshot from merged holdings and the current cash.
func (e *Engine) build(id string, merged []MergedHolding, supplied []HistoryPoint) *Snapshot {
	now := e.now()
	cash := e.cash.Balance()
	totals := ComputeTotals(merged)
	return &Snapshot{
		ID:          id,
		Taken:       now,
		Holdings:    merged,
		Cash:        cash,
		Totals:      totals,
		Allocation:  ComputeAllocation(totals, cash),
		Summary:     Summarize(merged),
		History:     SynthesizeHistory(supplied, merged, cash, now),
		Synthesized: supplied == nil,
		supplied:    supplied,
	}
}

// fallback returns the last known snapshot recomputed with the current cash,
// or an empty one.
func (e *Engine) fallback(id string) *Snapshot {
	last := e.Last()
	if last == nil {
		s := e.build(id, []MergedHolding{}, nil)
		s.Stale, s.Advisory = true, AdvisoryUnavailable
		return s
	}
	s := e.build(last.ID, last.Holdings, last.supplied)
	s.Reported = last.Reported
	s.Stale, s.Advisory = true, AdvisoryStale
	return s
}

func (e *Engine) publish(s *Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = s
}

// AddCash deposits amount and republishes the last snapshot with the new
// balance. Invalid amounts are ignored.
func (e *Engine) AddCash(amount float64) *Snapshot {
	if !e.cash.Add(amount) {
		return e.Last()
	}
	return e.recash()
}

// RemoveCash withdraws amount, see CashLedger.Remove.
func (e *Engine) RemoveCash(amount float64) *Snapshot {
	if !e.cash.Remove(amount) {
		return e.Last()
	}
	return e.recash()
}

// recash recomputes the cash dependent values without reloading.
func (e *Engine) recash() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return nil
	}
	last := e.last
	s := e.build(last.ID, last.Holdings, last.supplied)
	s.Reported = last.Reported
	s.Stale, s.Advisory = last.Stale, last.Advisory
	e.last = s
	return s
}

// Mutate validates m, applies it to the data source and reloads.
//
// Validation errors wrap ErrInvalidMutation and happen before any call to
// the data source. A sell without id targets the oldest lot of the symbol in
// the last snapshot, loaded first if there is none. On failure the published
// state is left untouched.
func (e *Engine) Mutate(ctx context.Context, m Mutation) (*Snapshot, error) {
	m, err := m.normalize()
	if err != nil {
		return nil, err
	}
	if m.Action == Sell && m.ID == "" {
		last := e.Last()
		if last == nil {
			if last, err = e.Load(ctx); err != nil {
				return nil, err
			}
		}
		id, ok := oldestLot(last.Holdings, m.Symbol)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLot, m.Symbol)
		}
		m.ID = id
	}

	if err := e.src.Mutate(ctx, m); err != nil {
		e.log.Warn().Err(err).Str("action", string(m.Action)).Str("symbol", m.Symbol).Msg("mutation failed")
		return nil, fmt.Errorf("cannot %s %s: %w", m.Action, m.Symbol, err)
	}
	e.log.Info().Str("action", string(m.Action)).Str("symbol", m.Symbol).Str("id", m.ID).Msg("mutation applied")
	return e.Load(ctx)
}
