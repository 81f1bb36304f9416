package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/folio/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio API for the dashboard" }
func (*serveCmd) Usage() string {
	return `pft serve [-addr <addr>]

  Serves the portfolio, cash, watchlist and news over HTTP. See 'pft topic serve'.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	addr := c.addr
	if addr == "" {
		addr = a.cfg.Serve.Addr
	}
	srv, err := server.New(server.Config{
		Addr:            addr,
		AllowedOrigins:  a.cfg.Serve.AllowedOrigins,
		RefreshSchedule: a.cfg.Serve.RefreshSchedule,
		Log:             a.log,
		Engine:          a.engine,
		News:            a.tracker,
		Watchlist:       a.client,
		SaveCash:        a.saveCash,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Refresh(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial refresh failed")
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
