package engine

import "fmt"

// InvalidInputError is returned when a user-supplied numeric field is
// out of domain. No partial computation proceeds.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s=%v: %s", e.Field, e.Value, e.Reason)
}

// MissingRateError is returned when a required external rate could not
// be obtained or parsed. The engine never runs without complete rates.
type MissingRateError struct {
	Name string
	Err  error
}

func (e *MissingRateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing rate %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("missing rate %q", e.Name)
}

func (e *MissingRateError) Unwrap() error { return e.Err }

// DegenerateComparisonError is returned when the best HKD total is not
// strictly positive, leaving the exchange-rate threshold undefined.
type DegenerateComparisonError struct {
	BestHKDTotal float64
}

func (e *DegenerateComparisonError) Error() string {
	return fmt.Sprintf("degenerate comparison: best HKD total %.2f is not positive, threshold undefined", e.BestHKDTotal)
}

// UnknownCurrencyError is returned when the currency-preference flag is
// neither USD nor HKD.
type UnknownCurrencyError struct {
	Value string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency preference %q (want USD or HKD)", e.Value)
}
