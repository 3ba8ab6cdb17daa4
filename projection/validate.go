package projection

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonFinite = errors.New("value must be a finite number")
	ErrNegative  = errors.New("value must not be negative")
	ErrOverflow  = errors.New("projection is not a finite number")
)

// Validate applies the boundary policy for untrusted input: every field
// must be finite, and spot, strike, time to expiry and volatility must not
// be negative. Project itself never calls Validate.
func (in Input) Validate() error {
	fields := []struct {
		name        string
		value       float64
		nonNegative bool
	}{
		{"stock price", in.Spot, true},
		{"strike price", in.Strike, true},
		{"risk-free rate", in.Rate, false},
		{"time to expiration", in.TimeToExpiry, true},
		{"implied volatility", in.Volatility, true},
		{"delta", in.Delta, false},
		{"gamma", in.Gamma, false},
		{"theta", in.Theta, false},
		{"vega", in.Vega, false},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s: %w", f.name, ErrNonFinite)
		}
		if f.nonNegative && f.value < 0 {
			return fmt.Errorf("%s: %w", f.name, ErrNegative)
		}
	}
	return nil
}

// CheckFinite reports the first scenario whose value overflowed. Finite
// inputs can still overflow, e.g. delta and gamma near math.MaxFloat64.
func (r Result) CheckFinite() error {
	for _, e := range r.Entries() {
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
			return fmt.Errorf("%s: %w", e.Scenario, ErrOverflow)
		}
	}
	return nil
}
