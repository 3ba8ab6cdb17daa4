package dto

import "github.com/jwaldner/greektracker/internal/models"

// TemplateData represents data passed to HTML templates
type TemplateData struct {
	Title         string
	Subtitle      string
	Stocks        []string
	SelectedStock string
	Form          FormValues

	// Results are set only after a Calculate action
	ResultTitle   string
	Rows          []models.ScenarioRow
	Error         string
	CalculationID string
}

// FormValues are the numbers shown in the input sidebar, in form units
type FormValues struct {
	StockPrice       float64
	StrikePrice      float64
	RiskFreeRatePct  float64
	DaysToExpiration float64
	ExpirationDate   string
	ImpliedVolPct    float64
	Delta            float64
	Gamma            float64
	Theta            float64
	Vega             float64
}
