// Command project prints one scenario table for the given option inputs.
// Rate and volatility are in percent and expiry in days, as in the web form.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jwaldner/greektracker/internal/config"
	"github.com/jwaldner/greektracker/internal/logger"
	"github.com/jwaldner/greektracker/internal/models"
	"github.com/jwaldner/greektracker/internal/render"
	"github.com/jwaldner/greektracker/internal/services"
	"github.com/jwaldner/greektracker/internal/symbols"
	"github.com/jwaldner/greektracker/projection"
)

func main() {
	cfg := config.Load()
	d := cfg.Defaults

	stock := flag.String("stock", "", "stock label or ticker")
	spot := flag.Float64("S", d.StockPrice, "current stock price")
	strike := flag.Float64("K", d.StrikePrice, "strike price")
	rate := flag.Float64("r", d.RiskFreeRatePct, "risk-free rate, percent")
	days := flag.Float64("T", d.DaysToExpiration, "time to expiration, days")
	expiration := flag.String("expiration", "", "expiration date YYYY-MM-DD (overrides -T)")
	sigma := flag.Float64("sigma", d.ImpliedVolPct, "implied volatility, percent")
	delta := flag.Float64("delta", d.Delta, "option delta")
	gamma := flag.Float64("gamma", d.Gamma, "option gamma")
	theta := flag.Float64("theta", d.Theta, "option theta")
	vega := flag.Float64("vega", d.Vega, "option vega")
	format := flag.String("format", "table", "output format: table, csv or json")
	ladderSteps := flag.Int("ladder", 0, "print a spot ladder with this many rungs instead")
	flag.Parse()

	if err := logger.InitWithConfig(cfg.Logging.LogLevel, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	req := &models.CalculationRequest{
		Stock:            *stock,
		StockPrice:       spot,
		StrikePrice:      strike,
		RiskFreeRatePct:  rate,
		DaysToExpiration: days,
		ExpirationDate:   *expiration,
		ImpliedVolPct:    sigma,
		Delta:            delta,
		Gamma:            gamma,
		Theta:            theta,
		Vega:             vega,
	}

	requestService := services.NewRequestService(d)
	in, _, err := requestService.ToInput(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(2)
	}

	label := stockLabel(cfg, *stock)

	if *ladderSteps > 0 {
		lo, hi, steps, err := requestService.LadderRange(&models.LadderRequest{Steps: *ladderSteps}, in.Spot, cfg.Ladder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(2)
		}
		if err := printLadder(os.Stdout, *format, label, in, lo, hi, steps); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		return
	}

	result := projection.Project(in)
	logger.Info.Printf("🧮 CLI projection for %s: %+v", label, result)

	if err := printResult(os.Stdout, *format, label, result); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func stockLabel(cfg *config.Config, submitted string) string {
	watchlist, err := symbols.LoadWatchlist(cfg.WatchlistFile, cfg.DefaultStocks)
	if err != nil {
		logger.Warn.Printf("⚠️ Watchlist unavailable: %v", err)
		return symbols.ParseLabel(submitted).Label()
	}
	return watchlist.Resolve(submitted)
}

func printResult(w io.Writer, format, label string, result projection.Result) error {
	if err := result.CheckFinite(); err != nil {
		return err
	}
	switch format {
	case "csv":
		return render.WriteCSV(w, result)
	case "json":
		return writeJSON(w, label, result)
	case "table", "":
		return render.WriteText(w, label, result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// printLadder renders every rung in the requested format: one table per
// rung, one CSV with a spot column, or one JSON document
func printLadder(w io.Writer, format, label string, in projection.Input, lo, hi float64, steps int) error {
	rungs, err := projection.Ladder(in, lo, hi, steps)
	if err != nil {
		return err
	}
	for _, rung := range rungs {
		if err := rung.Result.CheckFinite(); err != nil {
			return fmt.Errorf("spot %g: %w", rung.Spot, err)
		}
	}

	switch format {
	case "csv":
		return writeLadderCSV(w, rungs)
	case "json":
		return writeLadderJSON(w, label, rungs)
	case "table", "":
		for _, rung := range rungs {
			fmt.Fprintf(w, "\nS = %s\n", render.FormatPrice(rung.Spot))
			if err := render.WriteText(w, label, rung.Result); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
