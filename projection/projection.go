// Package projection maps an option's Greeks and spot price to projected
// prices under four one-day market scenarios.
package projection

import (
	"encoding/json"
	"math"
)

// Scenario labels, in result order.
const (
	StockUp         = "Stock Up"
	StockDown       = "Stock Down"
	IVUp            = "IV Up"
	IVDown          = "IV Down"
	TimeDecayImpact = "Time Decay Impact"
)

// Scenarios lists every label a Result carries, in display order.
var Scenarios = []string{StockUp, StockDown, IVUp, IVDown, TimeDecayImpact}

const (
	spotMove    = 0.01 // 1% of spot
	ivMove      = 0.01 // one volatility point
	daysPerYear = 365.0
)

// Input is one option position's market parameters and Greeks.
// Rate and Volatility are decimals, TimeToExpiry is in years.
type Input struct {
	Spot         float64 `json:"S"`
	Strike       float64 `json:"K"`
	Rate         float64 `json:"r"`
	TimeToExpiry float64 `json:"T"`
	Volatility   float64 `json:"sigma"`
	Delta        float64 `json:"delta"`
	Gamma        float64 `json:"gamma"`
	Theta        float64 `json:"theta"`
	Vega         float64 `json:"vega"`
}

// Entry is one scenario label and its projected value.
type Entry struct {
	Scenario string  `json:"scenario"`
	Price    float64 `json:"price"`
}

// Result holds the five projections of a single calculation.
// TimeDecay is a signed one-day amount, not a price, and is never floored.
type Result struct {
	StockUp   float64
	StockDown float64
	IVUp      float64
	IVDown    float64
	TimeDecay float64
}

// Project computes the scenario prices for in. Strike, Rate, TimeToExpiry
// and Volatility do not enter the arithmetic.
//
// The gamma term is added for both the up and the down move.
func Project(in Input) Result {
	// Explicit conversions round every product before it is added, so the
	// compiler cannot fuse multiply-adds and results match on every
	// architecture.
	move := float64(in.Spot * spotMove)
	convexity := float64(0.5 * in.Gamma * float64(move*move))
	priceChangeUp := float64(in.Delta*move) + convexity
	priceChangeDown := float64(-in.Delta*move) + convexity
	timeDecay := float64(in.Theta * (1 / daysPerYear))
	ivChange := float64(in.Vega * ivMove)

	stockUp := math.Max(0, in.Spot+priceChangeUp-timeDecay)
	stockDown := math.Max(0, in.Spot-priceChangeDown-timeDecay)

	return Result{
		StockUp:   stockUp,
		StockDown: stockDown,
		IVUp:      math.Max(0, stockUp+ivChange),
		IVDown:    math.Max(0, stockDown-ivChange),
		TimeDecay: timeDecay,
	}
}

// Entries returns the projections in display order.
func (r Result) Entries() []Entry {
	return []Entry{
		{StockUp, r.StockUp},
		{StockDown, r.StockDown},
		{IVUp, r.IVUp},
		{IVDown, r.IVDown},
		{TimeDecayImpact, r.TimeDecay},
	}
}

// Value looks up a projection by scenario label.
func (r Result) Value(scenario string) (float64, bool) {
	for _, e := range r.Entries() {
		if e.Scenario == scenario {
			return e.Price, true
		}
	}
	return 0, false
}

// Map returns the projections keyed by scenario label.
func (r Result) Map() map[string]float64 {
	m := make(map[string]float64, len(Scenarios))
	for _, e := range r.Entries() {
		m[e.Scenario] = e.Price
	}
	return m
}

// MarshalJSON encodes the result as an ordered array of entries.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Entries())
}
