package engine

// FxConvert converts HKD capital to USD at the given rate and deducts
// the schedule's fee. The fee is computed on the gross converted amount,
// not the net.
func FxConvert(capitalHKD, fxRate float64, fee FeeSchedule) float64 {
	usd := capitalHKD * fxRate
	return usd - fee(usd)
}

// IBMoneyMarketReturn is the one-year return of an IB money market fund:
// a fixed spread below the effective federal funds rate. Negative when
// the EFFR drops below the spread, which is a valid result.
func (c Config) IBMoneyMarketReturn(principalUSD, fedRate float64) float64 {
	return principalUSD * (fedRate - c.IBMoneyMarketSpread)
}

// FutuMoneyMarketReturn is the one-year return of the FUTU USD money
// market fund at its quoted annualized percentage.
func FutuMoneyMarketReturn(principalUSD, annualPct float64) float64 {
	return principalUSD * (annualPct / 100)
}

// HKMoneyMarketReturn is the one-year return of an HKD deposit or money
// market fund at an annualized percentage. No FX leg, no fee.
func HKMoneyMarketReturn(capitalHKD, annualPct float64) float64 {
	return capitalHKD * (annualPct / 100)
}

// BondReturn is the one-year return of holding a government bond at the
// given yield, net of the brokerage's bond fee. The fee is computed on
// the post-FX principal.
func BondReturn(principal, bondRatePct float64, fee FeeSchedule) float64 {
	return principal*(bondRatePct/100) - fee(principal)
}
