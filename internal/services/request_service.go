package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jwaldner/greektracker/internal/config"
	"github.com/jwaldner/greektracker/internal/models"
	"github.com/jwaldner/greektracker/internal/utils"
	"github.com/jwaldner/greektracker/projection"
)

const daysPerYear = 365.0

// ErrInvalidInput marks requests rejected before projection; callers show
// the message to the user.
var ErrInvalidInput = errors.New("invalid input")

// RequestService handles calculator request parsing and unit conversion
type RequestService struct {
	defaults config.InputDefaults
	now      func() time.Time
}

// NewRequestService creates a request service filling gaps from defaults
func NewRequestService(defaults config.InputDefaults) *RequestService {
	return &RequestService{defaults: defaults, now: time.Now}
}

// WithClock replaces the clock used for expiration dates
func (s *RequestService) WithClock(now func() time.Time) *RequestService {
	s.now = now
	return s
}

// Defaults returns the configured form values
func (s *RequestService) Defaults() config.InputDefaults {
	return s.defaults
}

// ParseCalculationRequest reads a JSON body or, for form posts, the form fields
func (s *RequestService) ParseCalculationRequest(r *http.Request) (*models.CalculationRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req models.CalculationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: failed to decode request: %v", ErrInvalidInput, err)
		}
		return &req, nil
	}
	return s.ParseForm(r)
}

// ParseLadderRequest reads a JSON ladder request
func (s *RequestService) ParseLadderRequest(r *http.Request) (*models.LadderRequest, error) {
	var req models.LadderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: failed to decode request: %v", ErrInvalidInput, err)
	}
	return &req, nil
}

// ParseForm reads calculator fields from an HTML form post. Blank fields
// stay nil and take defaults.
func (s *RequestService) ParseForm(r *http.Request) (*models.CalculationRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: failed to parse form: %v", ErrInvalidInput, err)
	}

	req := &models.CalculationRequest{
		Stock:          strings.TrimSpace(r.PostForm.Get("stock")),
		ExpirationDate: strings.TrimSpace(r.PostForm.Get("expiration_date")),
	}

	fields := []struct {
		name string
		dst  **float64
	}{
		{"stock_price", &req.StockPrice},
		{"strike_price", &req.StrikePrice},
		{"risk_free_rate", &req.RiskFreeRatePct},
		{"days_to_expiration", &req.DaysToExpiration},
		{"implied_volatility", &req.ImpliedVolPct},
		{"delta", &req.Delta},
		{"gamma", &req.Gamma},
		{"theta", &req.Theta},
		{"vega", &req.Vega},
	}
	for _, f := range fields {
		value, err := parseOptionalFloat(r.PostForm.Get(f.name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, f.name)
		}
		*f.dst = value
	}

	return req, nil
}

// Resolve fills the request's nil fields from the configured defaults,
// still in form units
func (s *RequestService) Resolve(req *models.CalculationRequest) config.InputDefaults {
	d := s.defaults
	return config.InputDefaults{
		StockPrice:       valueOr(req.StockPrice, d.StockPrice),
		StrikePrice:      valueOr(req.StrikePrice, d.StrikePrice),
		RiskFreeRatePct:  valueOr(req.RiskFreeRatePct, d.RiskFreeRatePct),
		DaysToExpiration: valueOr(req.DaysToExpiration, d.DaysToExpiration),
		ImpliedVolPct:    valueOr(req.ImpliedVolPct, d.ImpliedVolPct),
		Delta:            valueOr(req.Delta, d.Delta),
		Gamma:            valueOr(req.Gamma, d.Gamma),
		Theta:            valueOr(req.Theta, d.Theta),
		Vega:             valueOr(req.Vega, d.Vega),
	}
}

// ToInput applies defaults, converts percent and day fields to decimals and
// years, and validates the result. It also returns the day count used.
func (s *RequestService) ToInput(req *models.CalculationRequest) (projection.Input, float64, error) {
	v := s.Resolve(req)

	days := v.DaysToExpiration
	if req.ExpirationDate != "" {
		d, err := utils.DaysToExpiration(req.ExpirationDate, s.now())
		if err != nil {
			return projection.Input{}, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		days = float64(d)
	}

	in := projection.Input{
		Spot:         v.StockPrice,
		Strike:       v.StrikePrice,
		Rate:         v.RiskFreeRatePct / 100,
		TimeToExpiry: days / daysPerYear,
		Volatility:   v.ImpliedVolPct / 100,
		Delta:        v.Delta,
		Gamma:        v.Gamma,
		Theta:        v.Theta,
		Vega:         v.Vega,
	}

	if err := in.Validate(); err != nil {
		return projection.Input{}, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return in, days, nil
}

// LadderRange resolves the spot range and step count of a ladder request
func (s *RequestService) LadderRange(req *models.LadderRequest, spot float64, cfg config.LadderConfig) (lo, hi float64, steps int, err error) {
	lo, hi = req.LowPrice, req.HighPrice
	if lo == 0 && hi == 0 {
		spread := spot * cfg.RangePct / 100
		lo, hi = spot-spread, spot+spread
		if lo < 0 {
			lo = 0
		}
	}
	if lo < 0 || hi < lo {
		return 0, 0, 0, fmt.Errorf("%w: price range %.2f to %.2f is invalid", ErrInvalidInput, lo, hi)
	}

	steps = req.Steps
	if steps == 0 {
		steps = cfg.Steps
	}
	if steps < 2 || steps > cfg.MaxSteps {
		return 0, 0, 0, fmt.Errorf("%w: steps must be between 2 and %d", ErrInvalidInput, cfg.MaxSteps)
	}
	return lo, hi, steps, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func valueOr(v *float64, defaultValue float64) float64 {
	if v != nil {
		return *v
	}
	return defaultValue
}
