// Package engine implements the return comparison engine: fee schedules,
// single-period return formulas, and the multi-way ranking that turns a
// handful of market-rate inputs into a recommendation.
//
// The engine is a pure function of its inputs. It performs no I/O, keeps
// no state between invocations, and given identical inputs produces
// identical outputs.
package engine

import "math"

// Currency identifies the denomination of a vehicle or a preference.
type Currency string

const (
	USD Currency = "USD"
	HKD Currency = "HKD"
)

// Vehicle is one of the six fixed investment options under comparison.
type Vehicle string

const (
	IBMoneyMarketUSD   Vehicle = "IB Money Market Fund (USD)"
	IBBondUSD          Vehicle = "IB Bond (USD)"
	FutuMoneyMarketUSD Vehicle = "FUTU Money Market Fund (USD)"
	FutuBondUSD        Vehicle = "FUTU Bond (USD)"
	SCBPreferentialHKD Vehicle = "SCB Preferential Rate (HKD)"
	FutuMoneyMarketHKD Vehicle = "FUTU HK Money Market Fund (HKD)"
)

// Vehicles lists all six vehicles in display order.
func Vehicles() []Vehicle {
	return []Vehicle{
		IBMoneyMarketUSD,
		IBBondUSD,
		FutuMoneyMarketUSD,
		FutuBondUSD,
		SCBPreferentialHKD,
		FutuMoneyMarketHKD,
	}
}

// Currency returns the denomination of the vehicle.
func (v Vehicle) Currency() Currency {
	switch v {
	case SCBPreferentialHKD, FutuMoneyMarketHKD:
		return HKD
	default:
		return USD
	}
}

// MarketRates holds the externally sourced rates. Immutable once handed
// to the engine.
type MarketRates struct {
	FedRate     float64 `json:"fed_rate"`     // EFFR as a decimal fraction, e.g. 0.045
	BondRate1Y  float64 `json:"bond_rate_1y"` // percent
	BondRate10Y float64 `json:"bond_rate_10y"`
}

// BestBondRate returns the better of the two government bond yields, in
// percent.
func (m MarketRates) BestBondRate() float64 {
	return math.Max(m.BondRate1Y, m.BondRate10Y)
}

// Validate reports a MissingRateError if any rate is not a finite number.
func (m MarketRates) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"fed_rate", m.FedRate},
		{"bond_rate_1y", m.BondRate1Y},
		{"bond_rate_10y", m.BondRate10Y},
	} {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return &MissingRateError{Name: r.name}
		}
	}
	return nil
}

// Inputs holds the user-supplied parameters. Rates are annualized
// percentages; FX rates are HKD→USD multipliers.
type Inputs struct {
	CapitalHKD          float64 `json:"capital_hkd"`
	IBFxRate            float64 `json:"ib_fx_rate"`
	FutuFxRate          float64 `json:"futu_fx_rate"`
	FutuReturnUSD       float64 `json:"futu_return_usd_pct"`
	FutuReturnHKD       float64 `json:"futu_return_hkd_pct"`
	PreferentialRateHKD float64 `json:"preferential_rate_hkd_pct"`
}

// Validate rejects inputs before any computation happens: capital and
// both FX rates must be positive finite numbers, and every rate must be
// finite. Negative rates are allowed (unattractive, not invalid).
func (in Inputs) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"capital_hkd", in.CapitalHKD},
		{"ib_fx_rate", in.IBFxRate},
		{"futu_fx_rate", in.FutuFxRate},
	}
	for _, p := range positive {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return &InvalidInputError{Field: p.field, Value: p.value, Reason: "must be a finite number"}
		}
		if p.value <= 0 {
			return &InvalidInputError{Field: p.field, Value: p.value, Reason: "must be positive"}
		}
	}
	finite := []struct {
		field string
		value float64
	}{
		{"futu_return_usd_pct", in.FutuReturnUSD},
		{"futu_return_hkd_pct", in.FutuReturnHKD},
		{"preferential_rate_hkd_pct", in.PreferentialRateHKD},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &InvalidInputError{Field: f.field, Value: f.value, Reason: "must be a finite number"}
		}
	}
	return nil
}

// ParseCurrency validates a currency-preference string. The empty string
// is not accepted here; callers treat "no preference" before parsing.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case USD:
		return USD, nil
	case HKD:
		return HKD, nil
	}
	return "", &UnknownCurrencyError{Value: s}
}

// VehicleResult is the computed outcome for a single vehicle. Principal
// is already currency-converted and FX-fee-adjusted where applicable;
// Total is always Principal + Return. Results are computed once per run
// and never mutated.
type VehicleResult struct {
	Vehicle   Vehicle  `json:"vehicle"`
	Currency  Currency `json:"currency"`
	Principal float64  `json:"principal"`
	Return    float64  `json:"return"`
	Total     float64  `json:"total"`
}

// Outcome is derived entirely from the six VehicleResults.
type Outcome struct {
	Results [6]VehicleResult `json:"results"`

	BestUSDVehicle Vehicle `json:"best_usd_vehicle"`
	BestUSDTotal   float64 `json:"best_usd_total"`
	BestHKDVehicle Vehicle `json:"best_hkd_vehicle"`
	BestHKDTotal   float64 `json:"best_hkd_total"`

	// ExchangeRateThreshold is the HKD→USD rate at which the best HKD
	// outcome, once converted, equals the best USD outcome. Always
	// BestUSDTotal / BestHKDTotal.
	ExchangeRateThreshold float64 `json:"exchange_rate_threshold"`

	OverallBest Vehicle `json:"overall_best"`
}

// Headline returns the best vehicle and total in the preferred currency.
func (o *Outcome) Headline(pref Currency) (Vehicle, float64, error) {
	switch pref {
	case USD:
		return o.BestUSDVehicle, o.BestUSDTotal, nil
	case HKD:
		return o.BestHKDVehicle, o.BestHKDTotal, nil
	}
	return "", 0, &UnknownCurrencyError{Value: string(pref)}
}

// ConvertedOpposite returns the best total of the non-preferred currency
// converted into the preferred one at the threshold rate.
func (o *Outcome) ConvertedOpposite(pref Currency) float64 {
	if pref == USD {
		return o.BestHKDTotal * o.ExchangeRateThreshold
	}
	return o.BestUSDTotal / o.ExchangeRateThreshold
}

// Compare runs the single deterministic pass: it assembles the six
// vehicle results and derives the outcome. Inputs are validated first;
// no partial computation survives a validation failure.
func Compare(cfg Config, rates MarketRates, in Inputs) (*Outcome, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	usdIB := FxConvert(in.CapitalHKD, in.IBFxRate, cfg.IBFxFee)
	// The FUTU FX leg is modeled fee-free.
	usdFutu := FxConvert(in.CapitalHKD, in.FutuFxRate, NoFee)

	bondRate := rates.BestBondRate()

	ibMM := result(IBMoneyMarketUSD, usdIB, cfg.IBMoneyMarketReturn(usdIB, rates.FedRate))
	ibBond := result(IBBondUSD, usdIB, BondReturn(usdIB, bondRate, cfg.IBBondFee))
	futuMM := result(FutuMoneyMarketUSD, usdFutu, FutuMoneyMarketReturn(usdFutu, in.FutuReturnUSD))
	futuBond := result(FutuBondUSD, usdFutu, BondReturn(usdFutu, bondRate, cfg.FutuBondFee))
	pref := result(SCBPreferentialHKD, in.CapitalHKD, HKMoneyMarketReturn(in.CapitalHKD, in.PreferentialRateHKD))
	futuHK := result(FutuMoneyMarketHKD, in.CapitalHKD, HKMoneyMarketReturn(in.CapitalHKD, in.FutuReturnHKD))

	// Per-brokerage best-of-two is decided on the return, not the
	// total; on exact equality the money market fund wins.
	bestIB := bestOfTwo(ibMM, ibBond)
	bestFutuUSD := bestOfTwo(futuMM, futuBond)

	out := &Outcome{
		Results: [6]VehicleResult{ibMM, ibBond, futuMM, futuBond, pref, futuHK},
	}

	// Per-currency best is decided on the total; the first-listed
	// vehicle wins ties.
	if bestIB.Total >= bestFutuUSD.Total {
		out.BestUSDVehicle, out.BestUSDTotal = bestIB.Vehicle, bestIB.Total
	} else {
		out.BestUSDVehicle, out.BestUSDTotal = bestFutuUSD.Vehicle, bestFutuUSD.Total
	}
	if pref.Total >= futuHK.Total {
		out.BestHKDVehicle, out.BestHKDTotal = pref.Vehicle, pref.Total
	} else {
		out.BestHKDVehicle, out.BestHKDTotal = futuHK.Vehicle, futuHK.Total
	}

	if out.BestHKDTotal <= 0 {
		return nil, &DegenerateComparisonError{BestHKDTotal: out.BestHKDTotal}
	}
	out.ExchangeRateThreshold = out.BestUSDTotal / out.BestHKDTotal

	out.OverallBest = rankOverall([]VehicleResult{
		bestIB,
		bestFutuUSD,
		futuHK,
		pref,
	})

	return out, nil
}

func result(v Vehicle, principal, ret float64) VehicleResult {
	return VehicleResult{
		Vehicle:   v,
		Currency:  v.Currency(),
		Principal: principal,
		Return:    ret,
		Total:     principal + ret,
	}
}

// bestOfTwo picks the higher return; a is preferred on exact equality.
func bestOfTwo(a, b VehicleResult) VehicleResult {
	if b.Return > a.Return {
		return b
	}
	return a
}

// rankOverall declares the global winner: the first candidate whose
// total strictly exceeds every other candidate's. When no candidate
// strictly dominates (any tie among the four totals), the last candidate
// wins. Candidate order is a deliberate, tested policy.
func rankOverall(cands []VehicleResult) Vehicle {
	for i, c := range cands[:len(cands)-1] {
		dominates := true
		for j, o := range cands {
			if j != i && c.Total <= o.Total {
				dominates = false
				break
			}
		}
		if dominates {
			return c.Vehicle
		}
	}
	return cands[len(cands)-1].Vehicle
}
