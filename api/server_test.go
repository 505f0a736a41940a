package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iMarioChow/idle-cash/internal/config"
	"github.com/iMarioChow/idle-cash/internal/engine"
)

// stubSource returns fixed rates or a fixed error.
type stubSource struct {
	rates engine.MarketRates
	err   error
}

func (s *stubSource) MarketRates(context.Context) (engine.MarketRates, error) {
	return s.rates, s.err
}

func testServer(t *testing.T, src RateSource) *Server {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return NewServer(cfg, src)
}

func defaultStub() *stubSource {
	return &stubSource{rates: engine.MarketRates{FedRate: 0.045, BondRate1Y: 4.0, BondRate10Y: 3.6}}
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := testServer(t, defaultStub())
	rec := doRequest(t, s, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRates(t *testing.T) {
	s := testServer(t, defaultStub())
	rec := doRequest(t, s, http.MethodGet, "/api/v1/rates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var rates engine.MarketRates
	if err := json.Unmarshal(rec.Body.Bytes(), &rates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rates.FedRate != 0.045 || rates.BondRate1Y != 4.0 {
		t.Errorf("rates = %+v", rates)
	}
}

func TestRates_SourceDown(t *testing.T) {
	s := testServer(t, &stubSource{err: &engine.MissingRateError{Name: "fed_rate"}})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/rates", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestCompare_Defaults(t *testing.T) {
	s := testServer(t, defaultStub())
	rec := doRequest(t, s, http.MethodPost, "/api/v1/compare", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Outcome engine.Outcome `json:"outcome"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Outcome.OverallBest != engine.FutuMoneyMarketHKD {
		t.Errorf("overall best = %s, want %s", resp.Outcome.OverallBest, engine.FutuMoneyMarketHKD)
	}
	if len(resp.Outcome.Results) != 6 {
		t.Errorf("results = %d rows, want 6", len(resp.Outcome.Results))
	}
}

func TestCompare_RatesOverrideSkipsFetch(t *testing.T) {
	// Source errors, but inline rates mean it is never consulted.
	s := testServer(t, &stubSource{err: &engine.MissingRateError{Name: "fed_rate"}})
	body := `{"rates": {"fed_rate": 0.045, "bond_rate_1y": 4.0, "bond_rate_10y": 3.6}}`
	rec := doRequest(t, s, http.MethodPost, "/api/v1/compare", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
}

func TestCompare_Headline(t *testing.T) {
	s := testServer(t, defaultStub())
	rec := doRequest(t, s, http.MethodPost, "/api/v1/compare", `{"currency": "HKD"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var resp struct {
		HeadlineVehicle engine.Vehicle `json:"headline_vehicle"`
		HeadlineTotal   float64        `json:"headline_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HeadlineVehicle != engine.FutuMoneyMarketHKD {
		t.Errorf("headline vehicle = %s, want %s", resp.HeadlineVehicle, engine.FutuMoneyMarketHKD)
	}
	if resp.HeadlineTotal != 2_076_000 {
		t.Errorf("headline total = %v, want 2076000", resp.HeadlineTotal)
	}
}

func TestCompare_BadInputs(t *testing.T) {
	s := testServer(t, defaultStub())
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"unknown currency", `{"currency": "EUR"}`, http.StatusBadRequest},
		{"negative capital", `{"capital_hkd": -5}`, http.StatusBadRequest},
		{"zero fx rate", `{"ib_fx_rate": 0}`, http.StatusBadRequest},
		{"degenerate hkd totals", `{"capital_hkd": 1000, "futu_return_hkd_pct": -100, "preferential_rate_hkd_pct": -100}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/compare", tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.want, rec.Body)
		}
	}
}
