package engine

import "math"

// FeeSchedule maps a notional amount to a transaction fee. All schedules
// are monotonic non-decreasing past their floor.
type FeeSchedule func(amount float64) float64

// NoFee is the schedule for legs modeled as fee-free. Passing it makes
// the absence of a fee explicit at the call site.
var NoFee FeeSchedule = func(float64) float64 { return 0 }

// Config carries every formula constant the engine uses, so tests can
// override them without touching package state.
type Config struct {
	// IB currency exchange: flat floor or bps of notional.
	IBFxFeeFloor float64
	IBFxFeeRate  float64

	// IB bond commission: two rate tiers over face value, shared floor.
	// The boundary belongs to the lower-rate tier.
	IBBondFeeFloor    float64
	IBBondFeeRateLow  float64
	IBBondFeeRateHigh float64
	IBBondFeeTier     float64

	// FUTU bond commission plus a platform fee clamped on both sides.
	FutuCommissionRate float64
	FutuCommissionMin  float64
	FutuPlatformRate   float64
	FutuPlatformMin    float64
	FutuPlatformMax    float64

	// IB money market funds yield a fixed spread below the EFFR.
	IBMoneyMarketSpread float64
}

// DefaultConfig returns the published fee schedules and spread.
func DefaultConfig() Config {
	return Config{
		IBFxFeeFloor:        2,
		IBFxFeeRate:         0.2 * 0.0001,
		IBBondFeeFloor:      5,
		IBBondFeeRateLow:    0.002 * 0.0001,
		IBBondFeeRateHigh:   0.0001,
		IBBondFeeTier:       1_000_000,
		FutuCommissionRate:  0.0008,
		FutuCommissionMin:   2,
		FutuPlatformRate:    0.0004,
		FutuPlatformMin:     2,
		FutuPlatformMax:     15,
		IBMoneyMarketSpread: 0.005,
	}
}

// IBFxFee is the IB currency-conversion fee on a USD notional.
func (c Config) IBFxFee(usdAmount float64) float64 {
	return math.Max(c.IBFxFeeFloor, c.IBFxFeeRate*usdAmount)
}

// IBBondFee is the IB bond commission on a USD face value.
func (c Config) IBBondFee(faceValue float64) float64 {
	if faceValue <= c.IBBondFeeTier {
		return math.Max(c.IBBondFeeRateLow*faceValue, c.IBBondFeeFloor)
	}
	return math.Max(c.IBBondFeeRateHigh*faceValue, c.IBBondFeeFloor)
}

// FutuBondFee is the FUTU bond commission plus platform fee on a USD
// face value. The commission is untiered; the platform fee is clamped
// to [FutuPlatformMin, FutuPlatformMax].
func (c Config) FutuBondFee(faceValue float64) float64 {
	commission := math.Max(c.FutuCommissionRate*faceValue, c.FutuCommissionMin)
	platform := math.Min(math.Max(c.FutuPlatformRate*faceValue, c.FutuPlatformMin), c.FutuPlatformMax)
	return commission + platform
}
