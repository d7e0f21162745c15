// Package config loads application configuration from environment
// variables layered over an optional YAML file. Environment wins.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"loanmatch/internal/matching"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Matching MatchingConfig `yaml:"matching" envconfig:"MATCHING"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DataConfig locates the external tabular sources.
type DataConfig struct {
	WorkbookPath    string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH" default:"data/Calculation.xlsx"`
	LenderDirectory string `yaml:"lender_directory" envconfig:"LENDER_DIRECTORY" default:"data/companyData.json"`
}

// MatchingConfig exposes the matching engine thresholds. The defaults
// are the quoted business constants; they are configurable so a change
// of policy is an ops task, not a release.
type MatchingConfig struct {
	Tier1MinTradingYears int     `yaml:"tier1_min_trading_years" envconfig:"TIER1_MIN_TRADING_YEARS" default:"3"`
	Tier1MinProfit       float64 `yaml:"tier1_min_profit" envconfig:"TIER1_MIN_PROFIT" default:"50000"`
	Tier2MinTradingYears int     `yaml:"tier2_min_trading_years" envconfig:"TIER2_MIN_TRADING_YEARS" default:"2"`
	Tier2MinProfit       float64 `yaml:"tier2_min_profit" envconfig:"TIER2_MIN_PROFIT" default:"30000"`
	AmountWindowLow      float64 `yaml:"amount_window_low" envconfig:"AMOUNT_WINDOW_LOW" default:"0.5"`
	AmountWindowHigh     float64 `yaml:"amount_window_high" envconfig:"AMOUNT_WINDOW_HIGH" default:"1.5"`
	TermWindow           int     `yaml:"term_window" envconfig:"TERM_WINDOW" default:"6"`
	MaxRate              float64 `yaml:"max_rate" envconfig:"MAX_RATE" default:"24"`
	DefaultRate          float64 `yaml:"default_rate" envconfig:"DEFAULT_RATE" default:"15"`
	TopN                 int     `yaml:"top_n" envconfig:"TOP_N" default:"3"`
}

// Params converts the configured thresholds into matching engine
// parameters.
func (m MatchingConfig) Params() matching.Params {
	return matching.Params{
		Tier1MinTradingYears: m.Tier1MinTradingYears,
		Tier1MinProfit:       m.Tier1MinProfit,
		Tier2MinTradingYears: m.Tier2MinTradingYears,
		Tier2MinProfit:       m.Tier2MinProfit,
		AmountWindowLow:      m.AmountWindowLow,
		AmountWindowHigh:     m.AmountWindowHigh,
		TermWindow:           m.TermWindow,
		MaxRate:              m.MaxRate,
		DefaultRate:          m.DefaultRate,
		TopN:                 m.TopN,
	}
}

// Load loads configuration from environment variables and, when
// present, a config file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("LOAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env config on top of file config; env takes precedence
// for anything it set.
func merge(fileCfg, envCfg Config) Config {
	if envCfg.Server.Port == 0 {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if envCfg.Data.WorkbookPath == "" {
		envCfg.Data.WorkbookPath = fileCfg.Data.WorkbookPath
	}
	if envCfg.Data.LenderDirectory == "" {
		envCfg.Data.LenderDirectory = fileCfg.Data.LenderDirectory
	}
	if envCfg.Logging.Level == "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	return envCfg
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Data.WorkbookPath == "" {
		return fmt.Errorf("workbook path must be set")
	}
	if c.Matching.AmountWindowLow <= 0 || c.Matching.AmountWindowHigh < c.Matching.AmountWindowLow {
		return fmt.Errorf("invalid amount window [%v, %v]", c.Matching.AmountWindowLow, c.Matching.AmountWindowHigh)
	}
	if c.Matching.MaxRate <= 0 {
		return fmt.Errorf("max rate must be positive")
	}
	if c.Matching.TopN <= 0 {
		return fmt.Errorf("top_n must be positive")
	}
	return nil
}

// findConfigFile checks the conventional config file locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			WorkbookPath:    "data/Calculation.xlsx",
			LenderDirectory: "data/companyData.json",
		},
		Matching: MatchingConfig{
			Tier1MinTradingYears: 3,
			Tier1MinProfit:       50000,
			Tier2MinTradingYears: 2,
			Tier2MinProfit:       30000,
			AmountWindowLow:      0.5,
			AmountWindowHigh:     1.5,
			TermWindow:           6,
			MaxRate:              24,
			DefaultRate:          15,
			TopN:                 3,
		},
	}
}
