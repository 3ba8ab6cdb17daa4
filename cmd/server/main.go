package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jwaldner/greektracker/internal/config"
	"github.com/jwaldner/greektracker/internal/handlers"
	"github.com/jwaldner/greektracker/internal/logger"
	"github.com/jwaldner/greektracker/internal/services"
	"github.com/jwaldner/greektracker/internal/symbols"
)

func main() {
	cfg := config.Load()

	// Initialize logging with config level and file path
	if err := logger.InitWithConfig(cfg.Logging.LogLevel, cfg.Logging.LogFile); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Close()
	logger.Always.Printf("🚀 Greeks Tracker starting - Port: %s", cfg.Port)

	if cfg.Logging.LogLevel == "verbose" {
		fmt.Printf("⚠️  VERBOSE LOGGING ENABLED - Calculation inputs will be logged to %s\n", cfg.Logging.LogFile)
	}

	watchlist, err := symbols.LoadWatchlist(cfg.WatchlistFile, cfg.DefaultStocks)
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}
	logger.Info.Printf("📋 Watchlist loaded: %d stocks", len(watchlist.Stocks()))

	requestService := services.NewRequestService(cfg.Defaults)
	projectionHandler, err := handlers.NewProjectionHandler(cfg, watchlist, requestService)
	if err != nil {
		log.Fatalf("Failed to initialize handlers: %v", err)
	}

	r := handlers.NewRouter(projectionHandler)

	fmt.Printf("🌐 Server starting on http://localhost:%s\n", cfg.Port)
	logger.Always.Printf("🌐 Server starting on http://localhost:%s", cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
