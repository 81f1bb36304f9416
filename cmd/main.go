// Package cmd implements the pft command line: portfolio reports, cash,
// trades, watchlist news, the assistant and the HTTP server.
package cmd

import (
	"flag"

	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the configuration file (defaults to the user configuration directory).")
	logLevel   = flag.String("log-level", "warn", "Log level: debug, info, warn or error.")
)

// Commands lists the subcommands with their group.
var Commands = []struct {
	Group string
	Cmd   subcommands.Command
}{
	{"portfolio", &holdingsCmd{}},
	{"portfolio", &summaryCmd{}},
	{"portfolio", &historyCmd{}},
	{"portfolio", &cashCmd{}},
	{"portfolio", &buyCmd{}},
	{"portfolio", &sellCmd{}},
	{"watchlist", &watchlistCmd{}},
	{"watchlist", &sectorsCmd{}},
	{"watchlist", &newsCmd{}},
	{"watchlist", &quoteCmd{}},
	{"tools", &assistCmd{}},
	{"tools", &serveCmd{}},
	{"tools", &configureCmd{}},
	{"help", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range Commands {
		c.Register(e.Cmd, e.Group)
	}
}
