package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/remote"
	"github.com/etnz/folio/watchlist"
	"github.com/go-chi/chi/v5"
)

type buyRequest struct {
	Symbol       string         `json:"symbol"`
	Type         string         `json:"type"`
	Quantity     folio.Quantity `json:"quantity"`
	PurchaseDate date.Date      `json:"purchaseDate"`
}

type sellRequest struct {
	ID       string         `json:"id"`
	Symbol   string         `json:"symbol"`
	Quantity folio.Quantity `json:"quantity"`
}

type cashRequest struct {
	Amount float64 `json:"amount"`
}

type cashResponse struct {
	Cash folio.Money `json:"cash"`
}

type sectorRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// snapshot returns the last snapshot, loading one if there is none yet.
func (s *Server) snapshot(r *http.Request) (*folio.Snapshot, error) {
	if last := s.engine.Last(); last != nil {
		return last, nil
	}
	return s.engine.Load(r.Context())
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		s.writeJSON(w, http.StatusOK, snap.History)
		return
	}
	points := []folio.HistoryPoint{}
	for _, m := range snap.Holdings {
		if strings.EqualFold(m.Symbol, symbol) {
			points = append(points, folio.AssetHistory(m, snap.Taken)...)
		}
	}
	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mutate(w, r, folio.Mutation{
		Action:       folio.Buy,
		Symbol:       req.Symbol,
		Type:         folio.AssetType(req.Type),
		Quantity:     req.Quantity,
		PurchaseDate: req.PurchaseDate,
	})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mutate(w, r, folio.Mutation{
		Action:   folio.Sell,
		ID:       req.ID,
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
	})
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, m folio.Mutation) {
	snap, err := s.engine.Mutate(r.Context(), m)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCash(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, cashResponse{Cash: s.engine.Cash().Balance()})
}

func (s *Server) handleCashAdd(w http.ResponseWriter, r *http.Request) {
	s.cash(w, r, s.engine.AddCash)
}

func (s *Server) handleCashRemove(w http.ResponseWriter, r *http.Request) {
	s.cash(w, r, s.engine.RemoveCash)
}

func (s *Server) cash(w http.ResponseWriter, r *http.Request, apply func(float64) *folio.Snapshot) {
	var req cashRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount must be positive"})
		return
	}
	apply(req.Amount)
	balance := s.engine.Cash().Balance()
	if s.saveCash != nil {
		if err := s.saveCash(balance); err != nil {
			s.log.Error().Err(err).Msg("cannot save cash balance")
		}
	}
	s.writeJSON(w, http.StatusOK, cashResponse{Cash: balance})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.news.Feed(r.Context()))
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := s.watchlist.Watchlist(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	var item watchlist.Item
	if !s.decode(w, r, &item) {
		return
	}
	item.Symbol = strings.ToUpper(strings.TrimSpace(item.Symbol))
	if item.Symbol == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "symbol is required"})
		return
	}
	if err := s.watchlist.Watch(r.Context(), item); err != nil {
		s.writeError(w, err)
		return
	}
	s.news.Refresh(r.Context())
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUnwatch(w http.ResponseWriter, r *http.Request) {
	if err := s.watchlist.Unwatch(r.Context(), chi.URLParam(r, "symbol")); err != nil {
		s.writeError(w, err)
		return
	}
	s.news.Refresh(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.watchlist.Quote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.watchlist.Sectors(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sectors)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.watchlist.SectorCatalog(r.Context())
	if err != nil || len(catalog) == 0 {
		s.log.Warn().Err(err).Msg("sector catalog unavailable, using the builtin one")
		catalog = watchlist.Catalog
	}
	s.writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req sectorRequest
	if !s.decode(w, r, &req) {
		return
	}
	name := watchlist.NormalizeSector(req.Name)
	if name == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	if err := s.watchlist.Track(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	s.news.Refresh(r.Context())
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUntrack(w http.ResponseWriter, r *http.Request) {
	if err := s.watchlist.Untrack(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	s.news.Refresh(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type errorResponse struct {
	Error string `json:"error"`
}

// decode reads the JSON body into v, or writes a 400 and reports false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// writeError maps err to a status code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, folio.ErrInvalidMutation):
		status = http.StatusBadRequest
	case errors.Is(err, folio.ErrUnknownLot):
		status = http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.IsNotFound():
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
