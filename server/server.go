// Package server exposes the portfolio, the cash balance and the watchlist
// news over HTTP for the dashboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/watchlist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Watchlist is the remote editor of the watchlist and tracked sectors.
type Watchlist interface {
	watchlist.Source
	Watch(ctx context.Context, item watchlist.Item) error
	Unwatch(ctx context.Context, symbol string) error
	SectorCatalog(ctx context.Context) ([]string, error)
	Track(ctx context.Context, name string) error
	Untrack(ctx context.Context, name string) error
	Quote(ctx context.Context, symbol string) (watchlist.Quote, error)
}

// Config holds server configuration
type Config struct {
	Addr            string
	AllowedOrigins  []string
	RefreshSchedule string // cron schedule, no scheduled refresh when empty
	Log             zerolog.Logger

	Engine    *folio.Engine
	News      *watchlist.Tracker
	Watchlist Watchlist
	// SaveCash persists the balance after each change, optional.
	SaveCash func(folio.Money) error
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	scheduler *scheduler
	log       zerolog.Logger

	engine    *folio.Engine
	news      *watchlist.Tracker
	watchlist Watchlist
	saveCash  func(folio.Money) error
}

// New creates a new HTTP server. It fails on an invalid refresh schedule.
func New(cfg Config) (*Server, error) {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		engine:    cfg.Engine,
		news:      cfg.News,
		watchlist: cfg.Watchlist,
		saveCash:  cfg.SaveCash,
	}

	s.setupMiddleware(cfg.AllowedOrigins)
	s.setupRoutes()

	s.scheduler = newScheduler(cfg.Log)
	if cfg.RefreshSchedule != "" {
		if err := s.scheduler.AddJob(cfg.RefreshSchedule, refreshJob{s}); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSchedule, err)
		}
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(45 * time.Second))

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.handlePortfolio)
			r.Get("/history", s.handleHistory)
			r.Post("/buy", s.handleBuy)
			r.Post("/sell", s.handleSell)
		})
		r.Route("/cash", func(r chi.Router) {
			r.Get("/", s.handleCash)
			r.Post("/add", s.handleCashAdd)
			r.Post("/remove", s.handleCashRemove)
		})
		r.Get("/news", s.handleNews)
		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", s.handleWatchlist)
			r.Post("/", s.handleWatch)
			r.Delete("/{symbol}", s.handleUnwatch)
			r.Get("/quote/{symbol}", s.handleQuote)
		})
		r.Route("/sectors", func(r chi.Router) {
			r.Get("/", s.handleSectors)
			r.Get("/catalog", s.handleCatalog)
			r.Post("/", s.handleTrack)
			r.Delete("/{name}", s.handleUntrack)
		})
	})
}

// Start starts the scheduled refresh and serves until Shutdown.
func (s *Server) Start() error {
	s.scheduler.Start()
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.scheduler.Stop()
	return s.server.Shutdown(ctx)
}

// Refresh reloads the portfolio and the news.
func (s *Server) Refresh(ctx context.Context) error {
	snap, err := s.engine.Load(ctx)
	if err != nil {
		return err
	}
	feed := s.news.Refresh(ctx)
	s.log.Debug().Bool("stale", snap.Stale).Bool("live_news", feed.Live).Msg("refreshed")
	return nil
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
