package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio/renderer"
	"github.com/etnz/folio/watchlist"
	"github.com/google/subcommands"
)

type watchlistCmd struct{}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "list, add or remove watched symbols" }
func (*watchlistCmd) Usage() string {
	return `pft watchlist [add <symbol> [<type>] | remove <symbol>]

  Without arguments, lists the watched symbols. News of watched symbols
  appear in 'pft news'.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {}

func (c *watchlistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	args := f.Args()
	switch {
	case len(args) == 0:
		items, err := a.client.Watchlist(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading watchlist: %v\n", err)
			return subcommands.ExitFailure
		}
		var b strings.Builder
		b.WriteString("# Watchlist\n\n")
		for _, it := range items {
			fmt.Fprintf(&b, "* %s %s\n", it.Symbol, it.AssetType)
		}
		if len(items) == 0 {
			b.WriteString("Nothing is watched.\n")
		}
		printMarkdown(b.String())
	case args[0] == "add" && (len(args) == 2 || len(args) == 3):
		item := watchlist.Item{Symbol: strings.ToUpper(args[1])}
		if len(args) == 3 {
			item.AssetType = strings.ToUpper(args[2])
		}
		if err := a.client.Watch(ctx, item); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", item.Symbol, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Watching %s\n", item.Symbol)
	case args[0] == "remove" && len(args) == 2:
		if err := a.client.Unwatch(ctx, strings.ToUpper(args[1])); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing %s: %v\n", args[1], err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

type sectorsCmd struct{}

func (*sectorsCmd) Name() string     { return "sectors" }
func (*sectorsCmd) Synopsis() string { return "list, track or untrack market sectors" }
func (*sectorsCmd) Usage() string {
	return `pft sectors [catalog | add <name> | remove <name>]

  Without arguments, lists the tracked sectors. 'catalog' lists the sectors
  that can be tracked. Names are matched case insensitively.

Usage Examples:
$ pft sectors add "real estate"
`
}

func (c *sectorsCmd) SetFlags(f *flag.FlagSet) {}

func (c *sectorsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	args := f.Args()
	switch {
	case len(args) == 0:
		sectors, err := a.client.Sectors(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading sectors: %v\n", err)
			return subcommands.ExitFailure
		}
		names := make([]string, 0, len(sectors))
		for _, s := range sectors {
			names = append(names, s.Name)
		}
		printList("Tracked Sectors", names)
	case args[0] == "catalog" && len(args) == 1:
		names, err := a.client.SectorCatalog(ctx)
		if err != nil || len(names) == 0 {
			a.log.Warn().Err(err).Msg("sector catalog unavailable")
			names = watchlist.Catalog
		}
		printList("Sectors", names)
	case args[0] == "add" && len(args) == 2:
		name := watchlist.NormalizeSector(args[1])
		if err := a.client.Track(ctx, name); err != nil {
			fmt.Fprintf(os.Stderr, "Error tracking %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Tracking %s\n", name)
	case args[0] == "remove" && len(args) == 2:
		name := watchlist.NormalizeSector(args[1])
		if err := a.client.Untrack(ctx, name); err != nil {
			fmt.Fprintf(os.Stderr, "Error untracking %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

func printList(title string, names []string) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, n := range names {
		fmt.Fprintf(&b, "* %s\n", n)
	}
	if len(names) == 0 {
		b.WriteString("None.\n")
	}
	printMarkdown(b.String())
}

type newsCmd struct {
	json bool
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "display the news of the watchlist" }
func (*newsCmd) Usage() string {
	return `pft news [-json]

  Displays the latest articles about the watched symbols and tracked
  sectors. See 'pft topic news'.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the feed as JSON.")
}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	feed := a.tracker.Refresh(ctx)
	if c.json {
		return printJSON(feed)
	}
	printMarkdown(renderer.RenderNews(feed))
	return subcommands.ExitSuccess
}

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display the latest price of symbols" }
func (*quoteCmd) Usage() string {
	return `pft quote <symbol>...
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	var b strings.Builder
	for _, symbol := range f.Args() {
		q, err := a.client.Quote(ctx, strings.ToUpper(symbol))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error quoting %s: %v\n", symbol, err)
			status = subcommands.ExitFailure
			continue
		}
		b.WriteString(renderer.RenderQuote(q))
		b.WriteString("\n")
	}
	printMarkdown(b.String())
	return status
}
