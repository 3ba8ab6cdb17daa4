// Package render turns projection results into the two-column
// "Scenario / Projected Price" table for each front end.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/jwaldner/greektracker/internal/models"
	"github.com/jwaldner/greektracker/projection"
)

// Column headings of the results table
const (
	ScenarioHeader = "Scenario"
	PriceHeader    = "Projected Price"
)

// Title is the heading shown above a result table
func Title(stock string) string {
	if stock == "" {
		return "Projected Option Prices"
	}
	return "Projected Option Prices for " + stock
}

// FormatPrice renders v with two decimal places, rounding half away from zero
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Rows converts a result into table rows in scenario order
func Rows(result projection.Result) []models.ScenarioRow {
	entries := result.Entries()
	rows := make([]models.ScenarioRow, len(entries))
	for i, e := range entries {
		valueType := "price"
		if e.Scenario == projection.TimeDecayImpact {
			valueType = "decay"
		}
		rows[i] = models.ScenarioRow{
			Scenario: e.Scenario,
			Price: models.FieldValue{
				Raw:     e.Price,
				Display: FormatPrice(e.Price),
				Type:    valueType,
			},
		}
	}
	return rows
}

// WriteText prints a titled, column-aligned table
func WriteText(w io.Writer, stock string, result projection.Result) error {
	if _, err := fmt.Fprintln(w, Title(stock)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", ScenarioHeader, PriceHeader)
	for _, row := range Rows(result) {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.Scenario, row.Price.Display)
	}
	return tw.Flush()
}

// WriteCSV writes the table with a header row
func WriteCSV(w io.Writer, result projection.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ScenarioHeader, PriceHeader}); err != nil {
		return err
	}
	for _, row := range Rows(result) {
		if err := cw.Write([]string{row.Scenario, row.Price.Display}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
