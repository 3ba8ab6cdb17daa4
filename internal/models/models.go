package models

import "github.com/jwaldner/greektracker/projection"

// FieldValue represents a field with both raw data and formatted display
type FieldValue struct {
	Raw     interface{} `json:"raw"`     // For CSV/sorting: 503.37505
	Display string      `json:"display"` // For UI: "503.38"
	Type    string      `json:"type"`    // For CSS: "price"
}

// CalculationRequest carries the calculator inputs in form units: rates and
// volatility in percent, expiry in days. Nil fields take the configured
// default. ExpirationDate, when set, replaces DaysToExpiration.
type CalculationRequest struct {
	Stock            string   `json:"stock"`
	StockPrice       *float64 `json:"stock_price"`
	StrikePrice      *float64 `json:"strike_price"`
	RiskFreeRatePct  *float64 `json:"risk_free_rate"`
	DaysToExpiration *float64 `json:"days_to_expiration"`
	ExpirationDate   string   `json:"expiration_date"`
	ImpliedVolPct    *float64 `json:"implied_volatility"`
	Delta            *float64 `json:"delta"`
	Gamma            *float64 `json:"gamma"`
	Theta            *float64 `json:"theta"`
	Vega             *float64 `json:"vega"`
}

// LadderRequest asks for projections across a range of spot prices. A zero
// range means +/- the configured percentage around the stock price.
type LadderRequest struct {
	CalculationRequest
	LowPrice  float64 `json:"low_price"`
	HighPrice float64 `json:"high_price"`
	Steps     int     `json:"steps"`
}

// ScenarioRow is one line of the results table
type ScenarioRow struct {
	Scenario string     `json:"scenario"`
	Price    FieldValue `json:"projected_price"`
}

// CalculationResponse represents the complete API response
type CalculationResponse struct {
	Success bool             `json:"success"`
	Data    CalculationData  `json:"data"`
	Meta    ResponseMetadata `json:"meta"`
}

type CalculationData struct {
	Title       string            `json:"title"`
	Stock       string            `json:"stock"`
	Rows        []ScenarioRow     `json:"rows"`
	Projections projection.Result `json:"projections"`
}

// LadderResponse carries one projection per spot price
type LadderResponse struct {
	Success bool                   `json:"success"`
	Stock   string                 `json:"stock"`
	Rungs   []projection.LadderRow `json:"rungs"`
	Meta    ResponseMetadata       `json:"meta"`
}

type ResponseMetadata struct {
	CalculationID string           `json:"calculation_id"`
	Timestamp     string           `json:"timestamp"`
	Input         projection.Input `json:"input"`
	DaysToExp     float64          `json:"days_to_expiration"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
