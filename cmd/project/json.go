package main

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/jwaldner/greektracker/internal/render"
	"github.com/jwaldner/greektracker/projection"
)

func writeJSON(w io.Writer, label string, result projection.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"title":       render.Title(label),
		"rows":        render.Rows(result),
		"projections": result,
	})
}

func writeLadderJSON(w io.Writer, label string, rungs []projection.LadderRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"title": render.Title(label),
		"rungs": rungs,
	})
}

func writeLadderCSV(w io.Writer, rungs []projection.LadderRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Spot", render.ScenarioHeader, render.PriceHeader}); err != nil {
		return err
	}
	for _, rung := range rungs {
		spot := render.FormatPrice(rung.Spot)
		for _, row := range render.Rows(rung.Result) {
			if err := cw.Write([]string{spot, row.Scenario, row.Price.Display}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
