package projection

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// LadderRow is the projection for one spot price on a ladder.
type LadderRow struct {
	Spot   float64 `json:"spot"`
	Result Result  `json:"projections"`
}

// Ladder projects in across steps evenly spaced spot prices from lo to hi
// inclusive, holding every other input fixed.
func Ladder(in Input, lo, hi float64, steps int) ([]LadderRow, error) {
	if steps < 2 {
		return nil, fmt.Errorf("ladder needs at least 2 steps, got %d", steps)
	}
	if lo > hi {
		return nil, fmt.Errorf("ladder low %.2f is above high %.2f", lo, hi)
	}

	spots := floats.Span(make([]float64, steps), lo, hi)
	rows := make([]LadderRow, len(spots))
	for i, spot := range spots {
		point := in
		point.Spot = spot
		rows[i] = LadderRow{Spot: spot, Result: Project(point)}
	}
	return rows, nil
}
