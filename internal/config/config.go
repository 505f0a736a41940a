// Package config handles configuration loading for idle-cash.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/iMarioChow/idle-cash/internal/engine"
)

// Config represents the complete application configuration.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Sources  SourcesConfig  `mapstructure:"sources"  yaml:"sources"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
}

// DefaultsConfig holds the fallback values for every user input.
type DefaultsConfig struct {
	CapitalHKD          float64 `mapstructure:"capital_hkd"               yaml:"capital_hkd"`
	IBFxRate            float64 `mapstructure:"ib_fx_rate"                yaml:"ib_fx_rate"`
	FutuFxRate          float64 `mapstructure:"futu_fx_rate"              yaml:"futu_fx_rate"`
	FutuReturnUSDPct    float64 `mapstructure:"futu_return_usd_pct"       yaml:"futu_return_usd_pct"`
	FutuReturnHKDPct    float64 `mapstructure:"futu_return_hkd_pct"       yaml:"futu_return_hkd_pct"`
	PreferentialRatePct float64 `mapstructure:"preferential_rate_hkd_pct" yaml:"preferential_rate_hkd_pct"`
	Currency            string  `mapstructure:"currency"                  yaml:"currency"` // "", "USD" or "HKD"
}

// SourcesConfig holds the upstream rate-source settings. Empty URLs keep
// the built-in endpoints.
type SourcesConfig struct {
	EFFRURL     string `mapstructure:"effr_url"      yaml:"effr_url"`
	US1YURL     string `mapstructure:"us1y_url"      yaml:"us1y_url"`
	US10YURL    string `mapstructure:"us10y_url"     yaml:"us10y_url"`
	CacheTTLSec int    `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.idlecash/config.yaml (home directory)
//
// Environment variables override config file values.
// Format: IDLECASH_<SECTION>_<KEY>, e.g., IDLECASH_DEFAULTS_CAPITAL_HKD
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".idlecash"))

	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults + env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("IDLECASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults sets the published fallback values for all config keys.
func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.capital_hkd", 2_000_000)
	v.SetDefault("defaults.ib_fx_rate", 0.128)
	v.SetDefault("defaults.futu_fx_rate", 0.12785)
	v.SetDefault("defaults.futu_return_usd_pct", 4.8491)
	v.SetDefault("defaults.futu_return_hkd_pct", 3.8)
	v.SetDefault("defaults.preferential_rate_hkd_pct", 3.5)
	v.SetDefault("defaults.currency", "")

	v.SetDefault("sources.effr_url", "")
	v.SetDefault("sources.us1y_url", "")
	v.SetDefault("sources.us10y_url", "")
	v.SetDefault("sources.cache_ttl_sec", 300)

	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 8750)
	v.SetDefault("api.cors_origins", []string{"*"})
}

// Inputs maps the configured defaults into engine inputs.
func (c *Config) Inputs() engine.Inputs {
	return engine.Inputs{
		CapitalHKD:          c.Defaults.CapitalHKD,
		IBFxRate:            c.Defaults.IBFxRate,
		FutuFxRate:          c.Defaults.FutuFxRate,
		FutuReturnUSD:       c.Defaults.FutuReturnUSDPct,
		FutuReturnHKD:       c.Defaults.FutuReturnHKDPct,
		PreferentialRateHKD: c.Defaults.PreferentialRatePct,
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
