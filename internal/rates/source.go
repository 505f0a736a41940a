// Package rates fetches the market rates the comparison engine consumes:
// the effective federal funds rate from the NY Fed Markets API and the
// 1-year/10-year Treasury yields scraped from CNBC quote pages.
package rates

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iMarioChow/idle-cash/internal/engine"
	"github.com/iMarioChow/idle-cash/internal/infra"
)

const (
	defaultEFFRURL  = "https://markets.newyorkfed.org/api/rates/unsecured/effr/last/1.json"
	defaultUS1YURL  = "https://www.cnbc.com/quotes/US1Y"
	defaultUS10YURL = "https://www.cnbc.com/quotes/US10Y"
)

// Source fetches market rates from the fixed upstream endpoints.
type Source struct {
	effrURL  string
	us1yURL  string
	us10yURL string

	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// Option configures a Source.
type Option func(*Source)

// WithURLs overrides the upstream endpoints. Empty strings keep the
// defaults.
func WithURLs(effr, us1y, us10y string) Option {
	return func(s *Source) {
		if effr != "" {
			s.effrURL = effr
		}
		if us1y != "" {
			s.us1yURL = us1y
		}
		if us10y != "" {
			s.us10yURL = us10y
		}
	}
}

// WithCacheTTL overrides the fetch cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Source) {
		s.cache = infra.NewCache(ttl)
	}
}

// NewSource creates a rate source with a 5-minute cache and a
// conservative request budget.
func NewSource(opts ...Option) *Source {
	s := &Source{
		effrURL:  defaultEFFRURL,
		us1yURL:  defaultUS1YURL,
		us10yURL: defaultUS10YURL,
		cache:    infra.NewCache(5 * time.Minute),
		limiter:  infra.NewRateLimiter(5, time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarketRates fetches all three rates concurrently and returns a fully
// formed rate set, or a MissingRateError naming the first rate that
// could not be obtained. The engine never runs on a partial set.
func (s *Source) MarketRates(ctx context.Context) (engine.MarketRates, error) {
	var rates engine.MarketRates

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fed, err := s.FedRate(ctx)
		if err != nil {
			return err
		}
		rates.FedRate = fed
		return nil
	})
	g.Go(func() error {
		y, err := s.BondYield(ctx, "bond_rate_1y", s.us1yURL)
		if err != nil {
			return err
		}
		rates.BondRate1Y = y
		return nil
	})
	g.Go(func() error {
		y, err := s.BondYield(ctx, "bond_rate_10y", s.us10yURL)
		if err != nil {
			return err
		}
		rates.BondRate10Y = y
		return nil
	})

	if err := g.Wait(); err != nil {
		return engine.MarketRates{}, err
	}
	return rates, nil
}
