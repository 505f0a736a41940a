package report

import (
	"strings"
	"testing"

	"github.com/iMarioChow/idle-cash/internal/engine"
)

func sampleOutcome(t *testing.T) (engine.MarketRates, *engine.Outcome) {
	t.Helper()
	rates := engine.MarketRates{FedRate: 0.045, BondRate1Y: 4.0, BondRate10Y: 3.6}
	in := engine.Inputs{
		CapitalHKD:          2_000_000,
		IBFxRate:            0.128,
		FutuFxRate:          0.12785,
		FutuReturnUSD:       4.8491,
		FutuReturnHKD:       3.8,
		PreferentialRateHKD: 3.5,
	}
	out, err := engine.Compare(engine.DefaultConfig(), rates, in)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	return rates, out
}

func TestRender_Table(t *testing.T) {
	rates, out := sampleOutcome(t)
	var sb strings.Builder
	if err := Render(&sb, rates, out, ""); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := sb.String()

	for _, v := range engine.Vehicles() {
		if !strings.Contains(got, string(v)) {
			t.Errorf("output missing vehicle row %q", v)
		}
	}
	for _, want := range []string{
		"Best bond rate: 4%",
		"Current Fed rate: 4.50%",
		"255994.88",
		"cutoff conversion rate",
		"FUTU HK Money Market Fund offers the better return.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	// No headline without a currency preference.
	if strings.Contains(got, "Best return in") {
		t.Error("unexpected headline without preference")
	}
}

func TestRender_Headline(t *testing.T) {
	rates, out := sampleOutcome(t)

	var sb strings.Builder
	if err := Render(&sb, rates, out, engine.USD); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(sb.String(), "Best return in USD:") {
		t.Errorf("missing USD headline:\n%s", sb.String())
	}

	sb.Reset()
	if err := Render(&sb, rates, out, engine.HKD); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(sb.String(), "Best return in HKD: 2076000.00 HKD") {
		t.Errorf("missing HKD headline:\n%s", sb.String())
	}
}

func TestRender_UnknownPreference(t *testing.T) {
	rates, out := sampleOutcome(t)
	var sb strings.Builder
	if err := Render(&sb, rates, out, engine.Currency("EUR")); err == nil {
		t.Error("expected error for unknown currency preference")
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		vehicle engine.Vehicle
		want    string
	}{
		{engine.IBMoneyMarketUSD, "IB offers the better return by investing in Money Market Fund (USD)."},
		{engine.FutuBondUSD, "FUTU offers the better return by investing in Bond (USD)."},
		{engine.FutuMoneyMarketHKD, "FUTU HK Money Market Fund offers the better return."},
		{engine.SCBPreferentialHKD, "SCB Preferential Rate offers the better return."},
	}
	for _, tt := range tests {
		if got := Verdict(tt.vehicle); got != tt.want {
			t.Errorf("Verdict(%s) = %q, want %q", tt.vehicle, got, tt.want)
		}
	}
}
