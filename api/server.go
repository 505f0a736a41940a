// Package api provides the HTTP REST API for idle-cash.
//
// It exposes the fetched market rates and the comparison engine as JSON
// endpoints so the tool can back a dashboard or script instead of the
// console report.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/iMarioChow/idle-cash/internal/config"
	"github.com/iMarioChow/idle-cash/internal/engine"
)

// RateSource supplies a complete market-rate set.
type RateSource interface {
	MarketRates(ctx context.Context) (engine.MarketRates, error)
}

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	source    RateSource
	engineCfg engine.Config
}

// NewServer creates a configured API server with all routes and
// middleware.
func NewServer(cfg *config.Config, source RateSource) *Server {
	s := &Server{
		cfg:       cfg,
		source:    source,
		engineCfg: engine.DefaultConfig(),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.API.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/rates", s.handleRates)
		r.Post("/compare", s.handleCompare)
	})
	return r
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.source.MarketRates(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// compareRequest carries optional overrides; nil fields fall back to
// the configured defaults. When rates are absent they are fetched.
type compareRequest struct {
	CapitalHKD          *float64 `json:"capital_hkd"`
	IBFxRate            *float64 `json:"ib_fx_rate"`
	FutuFxRate          *float64 `json:"futu_fx_rate"`
	FutuReturnUSD       *float64 `json:"futu_return_usd_pct"`
	FutuReturnHKD       *float64 `json:"futu_return_hkd_pct"`
	PreferentialRateHKD *float64 `json:"preferential_rate_hkd_pct"`

	Currency string              `json:"currency,omitempty"`
	Rates    *engine.MarketRates `json:"rates,omitempty"`
}

type compareResponse struct {
	Rates   engine.MarketRates `json:"rates"`
	Outcome *engine.Outcome    `json:"outcome"`

	HeadlineVehicle engine.Vehicle `json:"headline_vehicle,omitempty"`
	HeadlineTotal   float64        `json:"headline_total,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var pref engine.Currency
	if req.Currency != "" {
		var err error
		pref, err = engine.ParseCurrency(req.Currency)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	in := s.cfg.Inputs()
	applyOverride(&in.CapitalHKD, req.CapitalHKD)
	applyOverride(&in.IBFxRate, req.IBFxRate)
	applyOverride(&in.FutuFxRate, req.FutuFxRate)
	applyOverride(&in.FutuReturnUSD, req.FutuReturnUSD)
	applyOverride(&in.FutuReturnHKD, req.FutuReturnHKD)
	applyOverride(&in.PreferentialRateHKD, req.PreferentialRateHKD)

	var rates engine.MarketRates
	if req.Rates != nil {
		rates = *req.Rates
	} else {
		var err error
		rates, err = s.source.MarketRates(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
	}

	out, err := engine.Compare(s.engineCfg, rates, in)
	if err != nil {
		var invalid *engine.InvalidInputError
		var degenerate *engine.DegenerateComparisonError
		switch {
		case errors.As(err, &invalid):
			writeError(w, http.StatusBadRequest, err)
		case errors.As(err, &degenerate):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	resp := compareResponse{Rates: rates, Outcome: out}
	if pref != "" {
		resp.HeadlineVehicle, resp.HeadlineTotal, _ = out.Headline(pref)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func applyOverride(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
