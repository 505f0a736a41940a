package rates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iMarioChow/idle-cash/internal/engine"
	"github.com/iMarioChow/idle-cash/internal/infra"
)

// nyFedRatesResponse is the shape of the NY Fed Markets API rates
// endpoints. Only the fields we read are declared.
type nyFedRatesResponse struct {
	RefRates []struct {
		EffectiveDate string  `json:"effectiveDate"`
		Type          string  `json:"type"`
		PercentRate   float64 `json:"percentRate"`
	} `json:"refRates"`
}

var jsonHeaders = map[string]string{
	"Accept": "application/json",
}

// FedRate returns the latest effective federal funds rate as a decimal
// fraction (4.33% → 0.0433).
func (s *Source) FedRate(ctx context.Context) (float64, error) {
	const cacheKey = "effr"
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(float64), nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	body, err := infra.DoGet(ctx, s.effrURL, jsonHeaders)
	if err != nil {
		return 0, &engine.MissingRateError{Name: "fed_rate", Err: err}
	}
	defer body.Close()

	var resp nyFedRatesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return 0, &engine.MissingRateError{Name: "fed_rate", Err: err}
	}

	for _, r := range resp.RefRates {
		if r.Type == "EFFR" {
			rate := r.PercentRate / 100
			s.cache.Set(cacheKey, rate)
			return rate, nil
		}
	}
	return 0, &engine.MissingRateError{Name: "fed_rate", Err: fmt.Errorf("no EFFR entry in response")}
}
