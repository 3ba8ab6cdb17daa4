package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jwaldner/greektracker/internal/config"
	"github.com/jwaldner/greektracker/internal/dto"
	"github.com/jwaldner/greektracker/internal/logger"
	"github.com/jwaldner/greektracker/internal/models"
	"github.com/jwaldner/greektracker/internal/render"
	"github.com/jwaldner/greektracker/internal/services"
	"github.com/jwaldner/greektracker/internal/symbols"
	"github.com/jwaldner/greektracker/internal/utils"
	"github.com/jwaldner/greektracker/projection"
)

//go:embed templates/home.html
var templateFS embed.FS

const (
	appTitle    = "Options Greeks Tracker"
	appSubtitle = "Track Option Price Movements Based on Greeks"
)

// ProjectionHandler serves the calculator form and its JSON API. It keeps
// no per-request state; every Calculate action projects from scratch.
type ProjectionHandler struct {
	config    *config.Config
	watchlist *symbols.Watchlist
	requests  *services.RequestService
	tmpl      *template.Template
}

// calculation is one projection with the context it was computed in
type calculation struct {
	id     string
	stock  string
	input  projection.Input
	days   float64
	result projection.Result
}

// NewProjectionHandler parses the page template and wires the services
func NewProjectionHandler(cfg *config.Config, watchlist *symbols.Watchlist, requests *services.RequestService) (*ProjectionHandler, error) {
	funcMap := template.FuncMap{
		"scenarioHeader": func() string { return render.ScenarioHeader },
		"priceHeader":    func() string { return render.PriceHeader },
	}

	tmpl, err := template.New("home.html").Funcs(funcMap).ParseFS(templateFS, "templates/home.html")
	if err != nil {
		return nil, err
	}

	return &ProjectionHandler{
		config:    cfg,
		watchlist: watchlist,
		requests:  requests,
		tmpl:      tmpl,
	}, nil
}

// NewRouter registers every calculator route
func NewRouter(h *ProjectionHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.HomeHandler).Methods("GET")
	r.HandleFunc("/calculate", h.CalculateFormHandler).Methods("POST")

	r.HandleFunc("/api/calculate", h.CalculateHandler).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/ladder", h.LadderHandler).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/stocks", h.StocksHandler).Methods("GET")
	r.HandleFunc("/api/defaults", h.DefaultsHandler).Methods("GET")
	r.HandleFunc("/health", h.HealthHandler).Methods("GET")

	return r
}

// HomeHandler serves the input form with default values
func (h *ProjectionHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	data := h.templateData()
	data.Form = formValues(h.requests.Defaults())
	h.renderPage(w, http.StatusOK, data)
}

// CalculateFormHandler runs one projection for a form post and renders the table
func (h *ProjectionHandler) CalculateFormHandler(w http.ResponseWriter, r *http.Request) {
	data := h.templateData()
	data.Form = formValues(h.requests.Defaults())

	req, err := h.requests.ParseForm(r)
	if err != nil {
		data.Error = err.Error()
		h.renderPage(w, http.StatusBadRequest, data)
		return
	}
	data.Form = formValues(h.requests.Resolve(req))
	data.Form.ExpirationDate = req.ExpirationDate
	data.SelectedStock = h.watchlist.Resolve(req.Stock)

	calc, err := h.calculate(req)
	if err != nil {
		data.Error = err.Error()
		h.renderPage(w, errorStatus(err), data)
		return
	}

	data.ResultTitle = render.Title(calc.stock)
	data.Rows = render.Rows(calc.result)
	data.CalculationID = calc.id
	h.renderPage(w, http.StatusOK, data)
}

// CalculateHandler runs one projection and returns it as JSON
func (h *ProjectionHandler) CalculateHandler(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	req, err := h.requests.ParseCalculationRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	calc, err := h.calculate(req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CalculationResponse{
		Success: true,
		Data: models.CalculationData{
			Title:       render.Title(calc.stock),
			Stock:       calc.stock,
			Rows:        render.Rows(calc.result),
			Projections: calc.result,
		},
		Meta: calc.metadata(),
	})
}

// LadderHandler projects the same Greeks across a range of spot prices
func (h *ProjectionHandler) LadderHandler(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	req, err := h.requests.ParseLadderRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in, days, err := h.requests.ToInput(&req.CalculationRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	lo, hi, steps, err := h.requests.LadderRange(req, in.Spot, h.config.Ladder)
	if err != nil {
		writeError(w, err)
		return
	}

	rungs, err := projection.Ladder(in, lo, hi, steps)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, rung := range rungs {
		if err := rung.Result.CheckFinite(); err != nil {
			logger.Warn.Printf("⚠️ Ladder overflow at spot %g: %v", rung.Spot, err)
			writeError(w, fmt.Errorf("spot %g: %w", rung.Spot, err))
			return
		}
	}

	calc := calculation{
		id:    uuid.New().String(),
		stock: h.watchlist.Resolve(req.Stock),
		input: in,
		days:  days,
	}
	logger.Info.Printf("🪜 Ladder %s for %s: %d rungs from %.2f to %.2f", calc.id, calc.stock, steps, lo, hi)

	writeJSON(w, http.StatusOK, models.LadderResponse{
		Success: true,
		Stock:   calc.stock,
		Rungs:   rungs,
		Meta:    calc.metadata(),
	})
}

// StocksHandler returns the dropdown entries
func (h *ProjectionHandler) StocksHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"stocks": h.watchlist.Stocks(),
		"labels": h.watchlist.Labels(),
		"count":  len(h.watchlist.Labels()),
	}
	writeJSON(w, http.StatusOK, response)
}

// DefaultsHandler returns the form defaults and the next standard expiration
func (h *ProjectionHandler) DefaultsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"defaults":             h.requests.Defaults(),
		"next_expiration_date": utils.NextOptionsExpiration(time.Now()),
		"scenarios":            projection.Scenarios,
	}
	writeJSON(w, http.StatusOK, response)
}

// HealthHandler reports liveness
func (h *ProjectionHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ProjectionHandler) calculate(req *models.CalculationRequest) (*calculation, error) {
	in, days, err := h.requests.ToInput(req)
	if err != nil {
		logger.Warn.Printf("⚠️ Rejected calculation: %v", err)
		return nil, err
	}

	calc := &calculation{
		id:     uuid.New().String(),
		stock:  h.watchlist.Resolve(req.Stock),
		input:  in,
		days:   days,
		result: projection.Project(in),
	}

	if err := calc.result.CheckFinite(); err != nil {
		logger.Warn.Printf("⚠️ Calculation %s overflowed: %v", calc.id, err)
		return nil, err
	}

	logger.Info.Printf("🧮 Calculation %s for %s", calc.id, calc.stock)
	logger.Verbose.Printf("🔍 Calculation %s input: %+v", calc.id, calc.input)
	logger.Debug.Printf("🐛 Calculation %s result: %+v", calc.id, calc.result)
	return calc, nil
}

func (c *calculation) metadata() models.ResponseMetadata {
	return models.ResponseMetadata{
		CalculationID: c.id,
		Timestamp:     time.Now().Format(time.RFC3339),
		Input:         c.input,
		DaysToExp:     c.days,
	}
}

func (h *ProjectionHandler) templateData() dto.TemplateData {
	data := dto.TemplateData{
		Title:    appTitle,
		Subtitle: appSubtitle,
		Stocks:   h.watchlist.Labels(),
	}
	data.SelectedStock = h.watchlist.Resolve("")
	return data
}

func (h *ProjectionHandler) renderPage(w http.ResponseWriter, status int, data dto.TemplateData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, data); err != nil {
		logger.Error.Printf("❌ Template execution error: %v", err)
	}
}

func formValues(d config.InputDefaults) dto.FormValues {
	return dto.FormValues{
		StockPrice:       d.StockPrice,
		StrikePrice:      d.StrikePrice,
		RiskFreeRatePct:  d.RiskFreeRatePct,
		DaysToExpiration: d.DaysToExpiration,
		ImpliedVolPct:    d.ImpliedVolPct,
		Delta:            d.Delta,
		Gamma:            d.Gamma,
		Theta:            d.Theta,
		Vega:             d.Vega,
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// errorStatus maps rejected input to 400 and overflowing projections to 422
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, projection.ErrOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), models.ErrorResponse{Success: false, Error: err.Error()})
}

// writeJSON encodes v fully before writing any header, so an encoding
// failure still reaches the client as a 500
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		logger.Error.Printf("❌ JSON encoding failed: %v", err)
		http.Error(w, "JSON encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(jsonBytes)))
	w.WriteHeader(status)
	if _, err := w.Write(jsonBytes); err != nil {
		logger.Error.Printf("❌ Failed to write JSON response: %v", err)
	}
}
