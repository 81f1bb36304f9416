package cmd

import (
	"cmp"
	"fmt"
	"io"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/finnhub"
	"github.com/etnz/folio/remote"
	"github.com/etnz/folio/watchlist"
	"github.com/rs/zerolog"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	secrets config.Store
	client  *remote.Client
	state   *config.StateStore
	engine  *folio.Engine
	tracker *watchlist.Tracker
}

// newLogger returns the logger writing to w at level.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// newApp loads the configuration and wires the components.
func newApp() (*app, error) {
	log := newLogger(os.Stderr, *logLevel)

	if err := config.LoadEnv(".env"); err != nil {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}
	cfg, err := config.Load(cmp.Or(*configFile, config.DefaultPath()))
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		log:     log,
		secrets: config.EnvStore{Store: config.Keyring{}},
		client:  remote.New(cfg.APIBaseURL, cfg.Currency, log),
		state:   config.NewStateStore(cfg.StateFile),
	}
	if len(cfg.Quote.PricePaths) > 0 {
		a.client.PricePaths = cfg.Quote.PricePaths
	}

	st, err := a.state.Load(cfg.DefaultCash)
	if err != nil {
		return nil, fmt.Errorf("cannot read state %s: %w", cfg.StateFile, err)
	}
	a.engine = folio.NewEngine(a.client, folio.NewCashLedger(folio.M(st.Cash, cfg.Currency)), log)

	var provider watchlist.Provider
	token, err := config.Secret(a.secrets, config.KeyFinnhub)
	if err != nil {
		log.Warn().Err(err).Msg("cannot read the news credential")
	}
	if token != "" {
		provider = finnhub.New(token, finnhub.Options{
			BaseURL:  cfg.News.FinnhubBaseURL,
			CacheTTL: cfg.News.CacheTTL,
			CacheDir: cfg.News.CacheDir,
		}, log)
	} else {
		log.Info().Msgf("%s is not set, news are placeholders", config.EnvName(config.KeyFinnhub))
	}
	a.tracker = watchlist.NewTracker(a.client, watchlist.NewAggregator(provider, cfg.NewsOptions(), log), log)
	return a, nil
}

// saveCash persists the cash balance.
func (a *app) saveCash(m folio.Money) error {
	return a.state.Save(&config.State{Cash: m.AsFloat()})
}
