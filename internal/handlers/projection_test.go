package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jwaldner/greektracker/internal/config"
	"github.com/jwaldner/greektracker/internal/models"
	"github.com/jwaldner/greektracker/internal/services"
	"github.com/jwaldner/greektracker/internal/symbols"
	"github.com/jwaldner/greektracker/projection"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Defaults: config.ReferenceDefaults(),
		Ladder:   config.LadderConfig{Steps: 5, MaxSteps: 50, RangePct: 10},
	}
	watchlist := symbols.NewWatchlist([]string{"NVIDIA (NVDA)", "Super Micro Computer (SMCI)", "SoundHound AI (SOUN)"})

	h, err := NewProjectionHandler(cfg, watchlist, services.NewRequestService(cfg.Defaults))
	if err != nil {
		t.Fatalf("NewProjectionHandler failed: %v", err)
	}
	return NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHomeHandlerRendersDefaults(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Options Greeks Tracker",
		`<option value="NVIDIA (NVDA)" selected>`,
		"SoundHound AI (SOUN)",
		`name="stock_price" type="number" step="any" value="500"`,
		`name="theta" type="number" step="any" value="-0.02"`,
		"Calculate",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Home page missing %q", want)
		}
	}
	if strings.Contains(body, "<table") {
		t.Errorf("No results table should render before Calculate")
	}
}

func TestCalculateFormHandler(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{"stock": {"Super Micro Computer (SMCI)"}}
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Projected Option Prices for Super Micro Computer (SMCI)",
		"<th>Scenario</th><th>Projected Price</th>",
		`<td>Stock Up</td><td class="price">503.38</td>`,
		`<td>Stock Down</td><td class="price">502.63</td>`,
		`<td>IV Up</td><td class="price">503.38</td>`,
		`<td>IV Down</td><td class="price">502.62</td>`,
		`<td>Time Decay Impact</td><td class="decay">0.00</td>`,
		`<option value="Super Micro Computer (SMCI)" selected>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Result page missing %q", want)
		}
	}
}

func TestCalculateFormHandlerShowsValidationError(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader("stock_price=-5"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "stock price: value must not be negative") {
		t.Errorf("Expected validation message, got:\n%s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `value="-5"`) {
		t.Errorf("Submitted value should be echoed back into the form")
	}
}

func TestCalculateHandlerJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "/api/calculate", `{"stock":"NVDA"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Title       string               `json:"title"`
			Stock       string               `json:"stock"`
			Rows        []models.ScenarioRow `json:"rows"`
			Projections []projection.Entry   `json:"projections"`
		} `json:"data"`
		Meta models.ResponseMetadata `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if !resp.Success || resp.Data.Stock != "NVIDIA (NVDA)" {
		t.Errorf("Unexpected response header fields: %+v", resp)
	}
	if len(resp.Data.Projections) != 5 || resp.Data.Projections[0].Scenario != projection.StockUp {
		t.Fatalf("Unexpected projections: %+v", resp.Data.Projections)
	}
	if resp.Data.Projections[0].Price != 503.37505479452057 {
		t.Errorf("Stock Up should match the reference value, got %v", resp.Data.Projections[0].Price)
	}
	if resp.Data.Rows[3].Price.Display != "502.62" {
		t.Errorf("Unexpected IV Down display %q", resp.Data.Rows[3].Price.Display)
	}
	if len(resp.Meta.CalculationID) != 36 {
		t.Errorf("Expected a UUID calculation id, got %q", resp.Meta.CalculationID)
	}
	if resp.Meta.Input.Rate != 0.05 || resp.Meta.DaysToExp != 30 {
		t.Errorf("Unexpected converted input: %+v", resp.Meta)
	}
}

func TestCalculateHandlerErrors(t *testing.T) {
	router := newTestRouter(t)

	tests := map[string]string{
		"MalformedJSON": `{"stock_price":`,
		"WrongType":     `{"delta":"high"}`,
		"NegativeSpot":  `{"stock_price":-1}`,
		"PastExpiry":    `{"expiration_date":"2001-01-19"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, "/api/calculate", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if resp.Success || resp.Error == "" {
				t.Errorf("Expected an error message, got %+v", resp)
			}
		})
	}
}

func TestCalculateRequiresPost(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calculate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestLadderHandler(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "/api/ladder", `{"stock":"SOUN"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Stock   string `json:"stock"`
		Rungs   []struct {
			Spot        float64            `json:"spot"`
			Projections []projection.Entry `json:"projections"`
		} `json:"rungs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.Stock != "SoundHound AI (SOUN)" || len(resp.Rungs) != 5 {
		t.Fatalf("Unexpected ladder: %+v", resp)
	}
	if resp.Rungs[0].Spot != 450 || resp.Rungs[4].Spot != 550 {
		t.Errorf("Expected 450 to 550, got %v to %v", resp.Rungs[0].Spot, resp.Rungs[4].Spot)
	}

	rec = doJSON(t, router, "/api/ladder", `{"steps":500}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for too many steps, got %d", rec.Code)
	}
}

func TestStocksAndDefaultsHandlers(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks", nil))
	var stocks struct {
		Labels []string `json:"labels"`
		Count  int      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if stocks.Count != 3 || stocks.Labels[2] != "SoundHound AI (SOUN)" {
		t.Errorf("Unexpected stocks: %+v", stocks)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/defaults", nil))
	var defaults struct {
		Defaults  config.InputDefaults `json:"defaults"`
		Scenarios []string             `json:"scenarios"`
		NextExp   string               `json:"next_expiration_date"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &defaults); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if defaults.Defaults.StockPrice != 500 || len(defaults.Scenarios) != 5 || len(defaults.NextExp) != 10 {
		t.Errorf("Unexpected defaults: %+v", defaults)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected healthy, got %d", rec.Code)
	}
}

func TestOverflowingGreeksReturnDefinedError(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/calculate", "/api/ladder"} {
		t.Run(path, func(t *testing.T) {
			rec := doJSON(t, router, path, `{"delta":1e308,"gamma":1e308}`)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("Expected 422, got %d: %q", rec.Code, rec.Body.String())
			}

			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Expected a JSON error body, got %q: %v", rec.Body.String(), err)
			}
			if resp.Success || !strings.Contains(resp.Error, "Stock Up") {
				t.Errorf("Error should name the overflowing scenario, got %+v", resp)
			}
		})
	}

	form := url.Values{"delta": {"1e308"}, "gamma": {"1e308"}}
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "not a finite number") {
		t.Errorf("Form post should show the overflow, got %d", rec.Code)
	}
}

func TestFormEchoesResolvedValues(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{"delta": {"0.25"}, "expiration_date": {"2099-01-16"}}
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`name="delta" type="number" step="any" value="0.25"`,
		`name="gamma" type="number" step="any" value="0.03"`,
		`value="2099-01-16"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Form missing %q", want)
		}
	}
}
