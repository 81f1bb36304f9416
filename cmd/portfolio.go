package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// loadSnapshot wires the app and runs a load cycle.
func loadSnapshot(ctx context.Context) (*app, *folio.Snapshot, bool) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, false
	}
	s, err := a.engine.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return nil, nil, false
	}
	return a, s, true
}

type holdingsCmd struct {
	json bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the lots held with their current value" }
func (*holdingsCmd) Usage() string {
	return `pft holdings [-json]

  Displays every lot of the portfolio reconciled with its latest quote:
  quantity, invested amount, current price and value, profit or loss.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the whole snapshot as JSON.")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, s, ok := loadSnapshot(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	if c.json {
		return printJSON(s)
	}
	printMarkdown(renderer.RenderHoldings(s))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a portfolio performance summary" }
func (*summaryCmd) Usage() string {
	return `pft summary

  Displays the cost basis, market value and profit or loss of the portfolio,
  and its allocation between stocks, bonds, crypto and cash.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, s, ok := loadSnapshot(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderSummary(s))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	symbol string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio value over time" }
func (*historyCmd) Usage() string {
	return `pft history [-symbol <ticker>]

  Displays the value of the portfolio over time. When the backend has no
  history, it is rebuilt from the purchase dates. With -symbol, displays the
  bought and current value of each lot of that symbol.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Restrict the history to the lots of a symbol.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, s, ok := loadSnapshot(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	if c.symbol == "" {
		title := "Portfolio Value"
		if s.Synthesized {
			title += " (rebuilt from purchases)"
		}
		printMarkdown(renderer.RenderHistory(title, s.History))
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	for _, m := range s.Holdings {
		if strings.EqualFold(m.Symbol, c.symbol) {
			b.WriteString(renderer.RenderHistory(fmt.Sprintf("%s lot %s", m.Symbol, m.ID), folio.AssetHistory(m, s.Taken)))
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 {
		fmt.Fprintf(os.Stderr, "No lot of %q in the portfolio.\n", c.symbol)
		return subcommands.ExitFailure
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
