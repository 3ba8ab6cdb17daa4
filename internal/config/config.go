package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// InputDefaults are the values pre-filled in the calculator form, in the
// units the form shows: rate and volatility in percent, expiry in days.
type InputDefaults struct {
	StockPrice       float64 `yaml:"stock_price" json:"stock_price"`
	StrikePrice      float64 `yaml:"strike_price" json:"strike_price"`
	RiskFreeRatePct  float64 `yaml:"risk_free_rate_pct" json:"risk_free_rate"`
	DaysToExpiration float64 `yaml:"days_to_expiration" json:"days_to_expiration"`
	ImpliedVolPct    float64 `yaml:"implied_volatility_pct" json:"implied_volatility"`
	Delta            float64 `yaml:"delta" json:"delta"`
	Gamma            float64 `yaml:"gamma" json:"gamma"`
	Theta            float64 `yaml:"theta" json:"theta"`
	Vega             float64 `yaml:"vega" json:"vega"`
}

// LadderConfig controls the spot ladder endpoint
type LadderConfig struct {
	Steps    int     `yaml:"steps"`     // Rungs when the request omits steps
	MaxSteps int     `yaml:"max_steps"` // Upper bound on requested rungs
	RangePct float64 `yaml:"range_pct"` // Default +/- spread around spot
}

type Config struct {
	// Server settings
	Port string

	// Watchlist settings
	DefaultStocks []string
	WatchlistFile string

	Defaults InputDefaults
	Ladder   LadderConfig

	// Logging settings
	Logging LoggingConfig
}

type YAMLConfig struct {
	Port          string        `yaml:"port"`
	Logging       LoggingConfig `yaml:"logging"`
	DefaultStocks []string      `yaml:"default_stocks"`
	WatchlistFile string        `yaml:"watchlist_file"`
	Defaults      InputDefaults `yaml:"defaults"`
	Ladder        LadderConfig  `yaml:"ladder"`
}

// ReferenceDefaults returns the calculator's reference form values
func ReferenceDefaults() InputDefaults {
	return InputDefaults{
		StockPrice:       500.0,
		StrikePrice:      480.0,
		RiskFreeRatePct:  5.0,
		DaysToExpiration: 30,
		ImpliedVolPct:    50.0,
		Delta:            0.60,
		Gamma:            0.03,
		Theta:            -0.02,
		Vega:             0.10,
	}
}

// Load reads .env, then environment variables, then config.yaml
func Load() *Config {
	return LoadFrom("config.yaml")
}

// LoadFrom is Load with an explicit YAML path
func LoadFrom(yamlPath string) *Config {
	// Missing .env is normal outside development
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DefaultStocks: getEnvStringSlice("DEFAULT_STOCKS", []string{"NVIDIA (NVDA)", "Super Micro Computer (SMCI)", "SoundHound AI (SOUN)"}),
		WatchlistFile: getEnv("WATCHLIST_FILE", ""),
		Defaults:      ReferenceDefaults(),
		Ladder: LadderConfig{
			Steps:    getEnvInt("LADDER_STEPS", 11),
			MaxSteps: getEnvInt("LADDER_MAX_STEPS", 201),
			RangePct: getEnvFloat("LADDER_RANGE_PCT", 10.0),
		},
		Logging: LoggingConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogFile:  getEnv("LOG_FILE", "greektracker.log"),
		},
	}

	if yamlCfg := loadYAMLConfig(yamlPath); yamlCfg != nil {
		if yamlCfg.Port != "" && os.Getenv("PORT") == "" {
			cfg.Port = yamlCfg.Port
		}
		if len(yamlCfg.DefaultStocks) > 0 {
			cfg.DefaultStocks = yamlCfg.DefaultStocks
		}
		if yamlCfg.WatchlistFile != "" {
			cfg.WatchlistFile = yamlCfg.WatchlistFile
		}

		// Keys missing from the defaults block keep their reference value
		cfg.Defaults = yamlCfg.Defaults

		if yamlCfg.Ladder.Steps > 0 {
			cfg.Ladder.Steps = yamlCfg.Ladder.Steps
		}
		if yamlCfg.Ladder.MaxSteps > 0 {
			cfg.Ladder.MaxSteps = yamlCfg.Ladder.MaxSteps
		}
		if yamlCfg.Ladder.RangePct > 0 {
			cfg.Ladder.RangePct = yamlCfg.Ladder.RangePct
		}

		if yamlCfg.Logging.LogLevel != "" {
			cfg.Logging.LogLevel = yamlCfg.Logging.LogLevel
		}
		if yamlCfg.Logging.LogFile != "" {
			cfg.Logging.LogFile = yamlCfg.Logging.LogFile
		}
	}

	return cfg
}

func loadYAMLConfig(path string) *YAMLConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		// Could not read config file - silently return nil
		return nil
	}

	yamlCfg := YAMLConfig{Defaults: ReferenceDefaults()}
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		// Could not parse config file - silently return nil
		return nil
	}

	return &yamlCfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
