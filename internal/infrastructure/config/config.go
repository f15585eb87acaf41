package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Tax      TaxConfig
	Catalog  CatalogConfig
	Gateway  GatewayConfig
	Identity IdentityConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// TaxConfig holds the branch tax settings
type TaxConfig struct {
	// RatePercent is the branch-configured sales tax rate. Zero means
	// "not configured" and the pricing engine falls back to its default.
	RatePercent float64
}

// CatalogConfig holds the catalog store settings
type CatalogConfig struct {
	DBPath string // sqlite database path
}

// GatewayConfig holds the invoice submission gateway settings
type GatewayConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// IdentityConfig holds the device identity settings
type IdentityConfig struct {
	CacheFile string // path the resolved device id is persisted to
}

// Load reads configuration from config.toml (optional) and POS_* environment
// variables, applying defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Tax: TaxConfig{
			RatePercent: v.GetFloat64("tax.rate_percent"),
		},
		Catalog: CatalogConfig{
			DBPath: v.GetString("catalog.db_path"),
		},
		Gateway: GatewayConfig{
			BaseURL:        v.GetString("gateway.base_url"),
			TimeoutSeconds: v.GetInt("gateway.timeout_seconds"),
		},
		Identity: IdentityConfig{
			CacheFile: v.GetString("identity.cache_file"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pos-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("tax.rate_percent", 0)
	v.SetDefault("catalog.db_path", "catalog.db")
	v.SetDefault("gateway.base_url", "http://localhost:9090")
	v.SetDefault("gateway.timeout_seconds", 30)
	v.SetDefault("identity.cache_file", ".device-id")
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Tax.RatePercent < 0 {
		return fmt.Errorf("tax.rate_percent cannot be negative: %v", c.Tax.RatePercent)
	}
	if c.Tax.RatePercent > 100 {
		return fmt.Errorf("tax.rate_percent cannot exceed 100: %v", c.Tax.RatePercent)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if c.Gateway.TimeoutSeconds <= 0 {
		return fmt.Errorf("gateway.timeout_seconds must be positive: %d", c.Gateway.TimeoutSeconds)
	}
	if c.Catalog.DBPath == "" {
		return fmt.Errorf("catalog.db_path is required")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
