// Package config provides configuration management for the spread analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/logging"
	"spread-analyzer/internal/option"
)

// EnvPrefix prefixes environment overrides, e.g. SPREADS_MARKET_VOLATILITY.
const EnvPrefix = "SPREADS"

// Config holds all application configuration.
type Config struct {
	Market   MarketConfig   `mapstructure:"market"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// MarketConfig holds the market context contracts are valued in.
type MarketConfig struct {
	StockPrice          float64 `mapstructure:"stock_price"`
	RiskFreeRate        float64 `mapstructure:"risk_free_rate"`
	Volatility          float64 `mapstructure:"volatility"`             // percent
	TimeToExpiration    float64 `mapstructure:"time_to_expiration"`     // years
	FarTimeToExpiration float64 `mapstructure:"far_time_to_expiration"` // years, calendar spreads
}

// ChainConfig locates chain data. Empty file paths select the built-in
// sample chains.
type ChainConfig struct {
	Expiration    string `mapstructure:"expiration"`
	CallsFile     string `mapstructure:"calls_file"`
	PutsFile      string `mapstructure:"puts_file"`
	Sample        string `mapstructure:"sample"`
	FarExpiration string `mapstructure:"far_expiration"`
	FarCallsFile  string `mapstructure:"far_calls_file"`
	FarPutsFile   string `mapstructure:"far_puts_file"`
	FarSample     string `mapstructure:"far_sample"`
}

// AnalysisConfig holds generator defaults.
type AnalysisConfig struct {
	Range      float64 `mapstructure:"range"`
	InnerRange float64 `mapstructure:"inner_range"`
	OuterRange float64 `mapstructure:"outer_range"`
	Top        int     `mapstructure:"top"`
	Sort       string  `mapstructure:"sort"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// UIConfig holds output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	Output       string `mapstructure:"output"` // table, json
}

// Sort keys accepted in [analysis].
var validSortKeys = []string{"", "none", "max-profit", "max-loss", "cost", "reward-risk"}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/spread-analyzer"
	}
	return filepath.Join(home, ".config", "spread-analyzer")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("market.stock_price", 48.40)
	v.SetDefault("market.risk_free_rate", 0.0)
	v.SetDefault("market.volatility", 18.0)
	v.SetDefault("market.time_to_expiration", 0.1534)
	v.SetDefault("market.far_time_to_expiration", 0.3178)

	v.SetDefault("chain.expiration", "")
	v.SetDefault("chain.calls_file", "")
	v.SetDefault("chain.puts_file", "")
	v.SetDefault("chain.sample", "may")
	v.SetDefault("chain.far_expiration", "")
	v.SetDefault("chain.far_calls_file", "")
	v.SetDefault("chain.far_puts_file", "")
	v.SetDefault("chain.far_sample", "jul")

	v.SetDefault("analysis.range", 2.0)
	v.SetDefault("analysis.inner_range", 2.0)
	v.SetDefault("analysis.outer_range", 2.0)
	v.SetDefault("analysis.top", 0)
	v.SetDefault("analysis.sort", "none")

	defaults := logging.DefaultLogConfig()
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", defaults.FilePath)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.output", "table")
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load loads configuration from config.toml in configDir, writing a
// commented template there first if none exists. If configDir is empty,
// the default config directory is used. SPREADS_<SECTION>_<KEY>
// environment variables override file values.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	m := c.Market
	if m.StockPrice <= 0 {
		return apperrors.NewValidationError("market.stock_price", m.StockPrice, "must be positive")
	}
	if m.Volatility < 0 {
		return apperrors.NewValidationError("market.volatility", m.Volatility, "must not be negative")
	}
	if m.TimeToExpiration < 0 {
		return apperrors.NewValidationError("market.time_to_expiration", m.TimeToExpiration, "must not be negative")
	}
	if m.FarTimeToExpiration != 0 && m.FarTimeToExpiration <= m.TimeToExpiration {
		return apperrors.NewValidationError("market.far_time_to_expiration", m.FarTimeToExpiration,
			"must be later than time_to_expiration")
	}

	if (c.Chain.CallsFile == "") != (c.Chain.PutsFile == "") {
		return apperrors.NewValidationError("chain.puts_file", c.Chain.PutsFile, "calls_file and puts_file go together")
	}
	if (c.Chain.FarCallsFile == "") != (c.Chain.FarPutsFile == "") {
		return apperrors.NewValidationError("chain.far_puts_file", c.Chain.FarPutsFile,
			"far_calls_file and far_puts_file go together")
	}

	a := c.Analysis
	for field, value := range map[string]float64{
		"analysis.range":       a.Range,
		"analysis.inner_range": a.InnerRange,
		"analysis.outer_range": a.OuterRange,
	} {
		if value < 0 {
			return apperrors.NewValidationError(field, value, "must not be negative")
		}
	}
	if a.Top < 0 {
		return apperrors.NewValidationError("analysis.top", a.Top, "must not be negative")
	}
	if !contains(validSortKeys, strings.ToLower(a.Sort)) {
		return apperrors.NewValidationError("analysis.sort", a.Sort,
			"must be one of max-profit, max-loss, cost, reward-risk, none")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return apperrors.NewValidationError("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	if c.UI.Output != "table" && c.UI.Output != "json" {
		return apperrors.NewValidationError("ui.output", c.UI.Output, "must be table or json")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// NearMarket returns the market context of the near expiration.
func (c *Config) NearMarket() option.Market {
	return option.Market{
		UnderlyingPrice:  c.Market.StockPrice,
		TimeToExpiration: c.Market.TimeToExpiration,
		RiskFreeRate:     c.Market.RiskFreeRate,
		Volatility:       c.Market.Volatility,
	}
}

// FarMarket returns the market context of the far expiration.
func (c *Config) FarMarket() option.Market {
	m := c.NearMarket()
	m.TimeToExpiration = c.Market.FarTimeToExpiration
	return m
}

// LogConfig converts the [logging] section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.File = c.Logging.File
	if c.Logging.FilePath != "" {
		lc.FilePath = c.Logging.FilePath
	}
	return lc
}
