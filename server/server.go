// Package server exposes desk snapshots over HTTP and streams ticks over a
// websocket.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/fxdesk/desk"
	"github.com/rustyeddy/fxdesk/internal/logger"
	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/sim"
)

type Server struct {
	svc    *desk.Service
	hub    *Hub
	router *mux.Router
	log    zerolog.Logger
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(svc *desk.Service, opts ...Option) *Server {
	s := &Server{svc: svc, log: logger.Logger}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(svc.Snapshot, s.log)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.hub.ServeWS).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/pairs", s.handlePairs).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/pairs/{pair}", s.handlePair).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1/desk/{class}").Subrouter()
	api.HandleFunc("", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/strategies/{id}", s.handleStrategy).Methods(http.MethodGet)
	api.HandleFunc("/logs", s.handleLogs).Methods(http.MethodGet)
	return r
}

// Handler is the routed HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub is the websocket hub behind /ws.
func (s *Server) Hub() *Hub { return s.hub }

// ListenAndServe serves addr and streams ticks to websocket clients until
// ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ticks, unsubscribe := s.svc.Subscribe(16)
	defer unsubscribe()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx, ticks)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	stopHub()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"seq":     s.svc.Snapshot().Seq,
		"clients": s.hub.Clients(),
	})
}

type pairsView struct {
	Pairs      []market.InstrumentMeta `json:"pairs"`
	Currencies []string                `json:"currencies"`
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pairsView{
		Pairs:      market.Quoted(),
		Currencies: market.Currencies(),
	})
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	name := strings.ToUpper(mux.Vars(r)["pair"])
	m, ok := market.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("pair %q is not quoted", name))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// state resolves the {class} path variable, writing a 400 when it is not
// a known asset class.
func (s *Server) state(w http.ResponseWriter, r *http.Request) (sim.MarketState, bool) {
	class, err := market.ParseAssetClass(mux.Vars(r)["class"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return sim.MarketState{}, false
	}
	st, err := s.svc.State(class)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return sim.MarketState{}, false
	}
	return st, true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if st, ok := s.state(w, r); ok {
		writeJSON(w, http.StatusOK, st)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if st, ok := s.state(w, r); ok {
		writeJSON(w, http.StatusOK, sim.Summarize(st))
	}
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	st, ok := s.state(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, sim.Leaderboard(st, limit))
}

type strategyView struct {
	Strategy sim.Strategy   `json:"strategy"`
	Logs     []sim.CycleLog `json:"logs"`
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	st, ok := s.state(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	strat, found := sim.FindStrategy(st, id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("strategy %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, strategyView{
		Strategy: strat,
		Logs:     sim.FilterLogs(st.Logs, strat.ID),
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if st, ok := s.state(w, r); ok {
		writeJSON(w, http.StatusOK, sim.FilterLogs(st.Logs, r.URL.Query().Get("strategy")))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
