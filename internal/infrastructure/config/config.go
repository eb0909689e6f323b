package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Stock    StockConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds the sqlite connection settings. The database is a
// single file opened by one process; busy_timeout covers the rare case of
// a second tool (e.g. the migrate CLI) touching the same file.
type DatabaseConfig struct {
	Path          string // sqlite file path, or ":memory:"
	BusyTimeoutMS int
	JournalMode   string // wal, delete, truncate, persist, memory, off
	ForeignKeys   bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// StockConfig holds stock reporting thresholds
type StockConfig struct {
	LowStockThreshold float64 // remaining/original ratio below which a product is low
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MEDSUPPLY_ prefix (e.g., MEDSUPPLY_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("MEDSUPPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true cannot go through applyDefaults,
	// since an explicit false is indistinguishable from unset there.
	v.SetDefault("database.foreign_keys", true)

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Path:          v.GetString("database.path"),
			BusyTimeoutMS: v.GetInt("database.busy_timeout_ms"),
			JournalMode:   v.GetString("database.journal_mode"),
			ForeignKeys:   v.GetBool("database.foreign_keys"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Stock: StockConfig{
			LowStockThreshold: v.GetFloat64("stock.low_stock_threshold"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "medsupply-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "medsupply.db"
	}
	if cfg.Database.BusyTimeoutMS == 0 {
		cfg.Database.BusyTimeoutMS = 5000
	}
	if cfg.Database.JournalMode == "" {
		cfg.Database.JournalMode = "wal"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Stock.LowStockThreshold == 0 {
		cfg.Stock.LowStockThreshold = 0.20
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("database.busy_timeout_ms cannot be negative")
	}

	switch strings.ToLower(c.Database.JournalMode) {
	case "wal", "delete", "truncate", "persist", "memory", "off":
	default:
		return fmt.Errorf("database.journal_mode must be one of wal, delete, truncate, persist, memory, off; got %q",
			c.Database.JournalMode)
	}

	if c.Stock.LowStockThreshold < 0.0 || c.Stock.LowStockThreshold > 1.0 {
		return fmt.Errorf("stock.low_stock_threshold must be between 0.0 and 1.0, got %f",
			c.Stock.LowStockThreshold)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Path == ":memory:" {
			return fmt.Errorf("database.path cannot be ':memory:' in production")
		}
		if !c.Database.ForeignKeys {
			return fmt.Errorf("database.foreign_keys must be enabled in production")
		}
	}

	return nil
}

// DSN returns the sqlite connection string with pragmas applied as
// query parameters, in the form the go-sqlite3 driver understands.
func (d *DatabaseConfig) DSN() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.Itoa(d.BusyTimeoutMS))
	q.Set("_journal_mode", strings.ToUpper(d.JournalMode))
	if d.ForeignKeys {
		q.Set("_foreign_keys", "on")
	} else {
		q.Set("_foreign_keys", "off")
	}
	return "file:" + d.Path + "?" + q.Encode()
}
