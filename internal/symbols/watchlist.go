package symbols

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stock is one entry in the stock dropdown
type Stock struct {
	Ticker  string `json:"ticker"`
	Company string `json:"company"`
}

// Label renders the stock the way the dropdown shows it: "NVIDIA (NVDA)"
func (s Stock) Label() string {
	if s.Company == "" {
		return s.Ticker
	}
	if s.Ticker == "" {
		return s.Company
	}
	return fmt.Sprintf("%s (%s)", s.Company, s.Ticker)
}

// ParseLabel splits "Company (TICKER)" into its parts. A bare string
// without parentheses is treated as a ticker when it looks like one.
func ParseLabel(label string) Stock {
	label = strings.TrimSpace(label)
	open := strings.LastIndex(label, "(")
	if open > 0 && strings.HasSuffix(label, ")") {
		return Stock{
			Company: strings.TrimSpace(label[:open]),
			Ticker:  strings.ToUpper(strings.TrimSpace(label[open+1 : len(label)-1])),
		}
	}
	if isTicker(label) {
		return Stock{Ticker: strings.ToUpper(label)}
	}
	return Stock{Company: label}
}

// Watchlist is the ordered set of stocks offered for selection
type Watchlist struct {
	stocks []Stock
}

// NewWatchlist builds a watchlist from dropdown labels
func NewWatchlist(labels []string) *Watchlist {
	w := &Watchlist{}
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		w.add(ParseLabel(label))
	}
	return w
}

// LoadWatchlist reads a CSV file with ticker and company columns. The
// labels are used when path is empty.
func LoadWatchlist(path string, labels []string) (*Watchlist, error) {
	if path == "" {
		return NewWatchlist(labels), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	w, err := ReadWatchlist(f)
	if err != nil {
		return nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}
	return w, nil
}

// ReadWatchlist parses watchlist CSV. The header row must name a symbol or
// ticker column; a company or name column is optional.
func ReadWatchlist(r io.Reader) (*Watchlist, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 { // Header + at least one record
		return nil, fmt.Errorf("invalid CSV data")
	}

	symbolCol, companyCol := findCSVColumns(records[0])
	if symbolCol == -1 {
		return nil, fmt.Errorf("symbol column not found in CSV")
	}

	w := &Watchlist{}
	for _, record := range records[1:] {
		ticker := strings.ToUpper(getColumnValue(record, symbolCol))
		if !isTicker(ticker) {
			continue
		}
		w.add(Stock{Ticker: ticker, Company: getColumnValue(record, companyCol)})
	}

	if len(w.stocks) == 0 {
		return nil, fmt.Errorf("no valid symbols in CSV")
	}
	return w, nil
}

// Stocks returns the watchlist in display order
func (w *Watchlist) Stocks() []Stock {
	out := make([]Stock, len(w.stocks))
	copy(out, w.stocks)
	return out
}

// Labels returns the dropdown labels in display order
func (w *Watchlist) Labels() []string {
	labels := make([]string, len(w.stocks))
	for i, s := range w.stocks {
		labels[i] = s.Label()
	}
	return labels
}

// Default is the initially selected stock
func (w *Watchlist) Default() (Stock, bool) {
	if len(w.stocks) == 0 {
		return Stock{}, false
	}
	return w.stocks[0], true
}

// Lookup finds a stock by ticker or by its full label
func (w *Watchlist) Lookup(key string) (Stock, bool) {
	wanted := ParseLabel(key)
	for _, s := range w.stocks {
		if wanted.Ticker != "" && s.Ticker == wanted.Ticker {
			return s, true
		}
		if wanted.Ticker == "" && strings.EqualFold(s.Company, wanted.Company) {
			return s, true
		}
	}
	return Stock{}, false
}

// Resolve maps a submitted stock to its display label: the watchlist entry
// when known, the default entry when blank, otherwise the parsed label.
func (w *Watchlist) Resolve(submitted string) string {
	if strings.TrimSpace(submitted) == "" {
		if def, ok := w.Default(); ok {
			return def.Label()
		}
		return ""
	}
	if s, ok := w.Lookup(submitted); ok {
		return s.Label()
	}
	return ParseLabel(submitted).Label()
}

func (w *Watchlist) add(s Stock) {
	for _, existing := range w.stocks {
		if existing.Ticker != "" && existing.Ticker == s.Ticker {
			return
		}
	}
	w.stocks = append(w.stocks, s)
}

// findCSVColumns finds the symbol and company columns in a CSV header
func findCSVColumns(header []string) (symbolCol, companyCol int) {
	symbolCol, companyCol = -1, -1
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))

		if strings.Contains(col, "symbol") || strings.Contains(col, "ticker") {
			symbolCol = i
		} else if col == "security" || strings.Contains(col, "company") || strings.Contains(col, "name") {
			companyCol = i
		}
	}
	return symbolCol, companyCol
}

// getColumnValue safely gets value from CSV record
func getColumnValue(record []string, col int) string {
	if col >= 0 && col < len(record) {
		return strings.TrimSpace(record[col])
	}
	return ""
}

// isTicker checks if a string looks like a ticker symbol
func isTicker(symbol string) bool {
	if len(symbol) < 1 || len(symbol) > 5 {
		return false
	}
	for _, char := range strings.ToUpper(symbol) {
		if (char < 'A' || char > 'Z') && char != '.' {
			return false
		}
	}
	return true
}
