package rates

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iMarioChow/idle-cash/internal/engine"
	"github.com/iMarioChow/idle-cash/internal/infra"
)

// quoteSelector matches the last-price element on CNBC quote pages.
const quoteSelector = "span.QuoteStrip-lastPrice"

var htmlHeaders = map[string]string{
	"Accept": "text/html,application/xhtml+xml",
}

// BondYield scrapes a CNBC quote page and returns the quoted yield in
// percent. name labels the rate in errors ("bond_rate_1y" etc.).
func (s *Source) BondYield(ctx context.Context, name, url string) (float64, error) {
	cacheKey := "yield:" + url
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(float64), nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	body, err := infra.DoGet(ctx, url, htmlHeaders)
	if err != nil {
		return 0, &engine.MissingRateError{Name: name, Err: err}
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return 0, &engine.MissingRateError{Name: name, Err: err}
	}

	text := strings.TrimSpace(doc.Find(quoteSelector).First().Text())
	if text == "" {
		return 0, &engine.MissingRateError{Name: name, Err: fmt.Errorf("quote element %q not found", quoteSelector)}
	}

	yield, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
	if err != nil {
		return 0, &engine.MissingRateError{Name: name, Err: fmt.Errorf("parse quote %q: %w", text, err)}
	}

	s.cache.Set(cacheKey, yield)
	return yield, nil
}
