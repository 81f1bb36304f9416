package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type buyCmd struct {
	symbol   string
	kind     string
	quantity float64
	date     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "add a lot to the portfolio" }
func (*buyCmd) Usage() string {
	return `pft buy -s <symbol> -q <quantity> [-t <type>] [-d <date>]

  Records the purchase of a lot. The price is the one of the purchase day,
  as known by the backend.

Usage Examples:
$ pft buy -s AAPL -q 10 -d 2025-01-02
$ pft buy -s BND -t bond_etf -q 5
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the asset.")
	f.StringVar(&c.kind, "t", string(folio.Stock), "Asset type: STOCK, BOND, CRYPTO.")
	f.Float64Var(&c.quantity, "q", 0, "Quantity bought.")
	f.StringVar(&c.date, "d", date.Today().String(), "Purchase date, YYYY-MM-DD.")
}

func (c *buyCmd) mutation() (folio.Mutation, error) {
	on, err := date.Parse(c.date)
	if err != nil {
		return folio.Mutation{}, fmt.Errorf("invalid purchase date: %w", err)
	}
	return folio.Mutation{
		Action:       folio.Buy,
		Symbol:       c.symbol,
		Type:         folio.AssetType(c.kind),
		Quantity:     folio.Q(c.quantity),
		PurchaseDate: on,
	}, nil
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := c.mutation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return mutate(ctx, m)
}

type sellCmd struct {
	id       string
	symbol   string
	quantity float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "remove a lot from the portfolio" }
func (*sellCmd) Usage() string {
	return `pft sell (-id <lot> | -s <symbol>) [-q <quantity>]

  Removes a lot from the portfolio. With -s, the oldest lot of the symbol is
  removed. The whole lot is removed regardless of the quantity.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the lot to sell.")
	f.StringVar(&c.symbol, "s", "", "Symbol whose oldest lot is sold.")
	f.Float64Var(&c.quantity, "q", 1, "Quantity sold.")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return mutate(ctx, folio.Mutation{
		Action:   folio.Sell,
		ID:       c.id,
		Symbol:   c.symbol,
		Quantity: folio.Q(c.quantity),
	})
}

// mutate applies m and prints the reloaded holdings.
func mutate(ctx context.Context, m folio.Mutation) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	s, status := apply(ctx, a.engine, m, os.Stderr)
	if status == subcommands.ExitSuccess {
		printMarkdown(renderer.RenderHoldings(s))
	}
	return status
}

// apply runs m on engine and reports errors to stderr.
func apply(ctx context.Context, engine *folio.Engine, m folio.Mutation, stderr io.Writer) (*folio.Snapshot, subcommands.ExitStatus) {
	s, err := engine.Mutate(ctx, m)
	switch {
	case errors.Is(err, folio.ErrInvalidMutation), errors.Is(err, folio.ErrUnknownLot):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, subcommands.ExitUsageError
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return s, subcommands.ExitSuccess
}
