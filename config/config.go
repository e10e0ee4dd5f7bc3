package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest configuration
type Config struct {
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// BacktestConfig contains the simulation parameters
type BacktestConfig struct {
	Symbols []string `json:"symbols" yaml:"symbols"`
	Start   string   `json:"start" yaml:"start"` // YYYY-MM-DD
	End     string   `json:"end" yaml:"end"`

	InitialCapital        float64 `json:"initial_capital" yaml:"initial_capital"`
	MaxPositions          int     `json:"max_positions" yaml:"max_positions"`
	PositionSizePct       float64 `json:"position_size_pct" yaml:"position_size_pct"`
	CommissionPerContract float64 `json:"commission_per_contract" yaml:"commission_per_contract"`
	SlippagePct           float64 `json:"slippage_pct" yaml:"slippage_pct"`

	FetchTimeout string `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"` // e.g. "30s"
}

// StartDate parses the configured start date.
func (b BacktestConfig) StartDate() (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, b.Start, time.UTC)
}

// EndDate parses the configured end date.
func (b BacktestConfig) EndDate() (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, b.End, time.UTC)
}

// ParseFetchTimeout converts the fetch timeout string to a time.Duration.
// An empty string means "use the engine default".
func (b BacktestConfig) ParseFetchTimeout() (time.Duration, error) {
	if b.FetchTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(b.FetchTimeout)
}

// StrategyConfig selects and parameterizes the strategy
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`

	MinVolume       int64   `json:"min_volume" yaml:"min_volume"`
	MinOpenInterest int64   `json:"min_open_interest" yaml:"min_open_interest"`
	MinIV           float64 `json:"min_iv" yaml:"min_iv"`

	ProfitTargetPct  float64 `json:"profit_target_pct" yaml:"profit_target_pct"`
	StopLossPct      float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	MaxHoldDays      int     `json:"max_hold_days" yaml:"max_hold_days"`
	MaxSignalsPerDay int     `json:"max_signals_per_day" yaml:"max_signals_per_day"`
}

// DataConfig locates the historical chain dataset
type DataConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// JournalConfig contains results-sink parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Backtest.Symbols) == 0 {
		return fmt.Errorf("backtest.symbols is required")
	}
	start, err := c.Backtest.StartDate()
	if err != nil {
		return fmt.Errorf("backtest.start must be YYYY-MM-DD: %w", err)
	}
	end, err := c.Backtest.EndDate()
	if err != nil {
		return fmt.Errorf("backtest.end must be YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("backtest.end must not be before backtest.start")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Backtest.MaxPositions < 1 {
		return fmt.Errorf("backtest.max_positions must be at least 1")
	}
	if c.Backtest.PositionSizePct <= 0 || c.Backtest.PositionSizePct > 1 {
		return fmt.Errorf("backtest.position_size_pct must be in (0, 1]")
	}
	if c.Backtest.CommissionPerContract < 0 {
		return fmt.Errorf("backtest.commission_per_contract must not be negative")
	}
	if c.Backtest.SlippagePct < 0 || c.Backtest.SlippagePct >= 1 {
		return fmt.Errorf("backtest.slippage_pct must be in [0, 1)")
	}
	if _, err := c.Backtest.ParseFetchTimeout(); err != nil {
		return fmt.Errorf("backtest.fetch_timeout: %w", err)
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path is required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal.trades_file and journal.equity_file are required for csv journal")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Backtest: BacktestConfig{
			Symbols:               []string{"SPY", "QQQ"},
			Start:                 "2024-01-02",
			End:                   "2024-03-28",
			InitialCapital:        100000,
			MaxPositions:          5,
			PositionSizePct:       0.1,
			CommissionPerContract: 0.65,
			SlippagePct:           0.01,
			FetchTimeout:          "30s",
		},
		Strategy: StrategyConfig{
			Name:             "momentum",
			MinVolume:        100,
			MinOpenInterest:  500,
			MinIV:            0.70,
			ProfitTargetPct:  20,
			StopLossPct:      -15,
			MaxHoldDays:      5,
			MaxSignalsPerDay: 3,
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtests.sqlite",
		},
	}
}
