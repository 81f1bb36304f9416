package folio

import (
	"context"
	"errors"
)

var (
	// ErrNoHistory is returned by a DataSource that has no history series.
	ErrNoHistory = errors.New("no history available")
	// ErrInvalidMutation is returned for a mutation rejected before reaching the data source.
	ErrInvalidMutation = errors.New("invalid mutation")
	// ErrUnknownLot is returned when a sell targets a symbol that no lot holds.
	ErrUnknownLot = errors.New("no lot found")
)

// DataSource is the remote holder of the portfolio.
type DataSource interface {
	// Holdings returns all lots.
	Holdings(ctx context.Context) ([]Holding, error)
	// Performance returns the valuation of the lots.
	Performance(ctx context.Context) (Performance, error)
	// History returns the value series, or ErrNoHistory.
	History(ctx context.Context) ([]HistoryPoint, error)
	// Mutate applies a validated buy or sell.
	Mutate(ctx context.Context, m Mutation) error
}
