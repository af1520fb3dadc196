package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string
	SQLiteDBPath string

	// Calendar math and display
	Timezone     string
	CurrencyCode string

	// Single credential pair
	AuthUsername string
	AuthPassword string

	// Logging
	LogLevel  string
	LogFormat string
}

var validBackends = []string{"memory", "sqlite"}

// Defaults applied when neither the environment nor a .env file sets a key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8081")
	v.SetDefault("DATA_BACKEND", "sqlite")
	v.SetDefault("SQLITE_DB_PATH", "./data/expenses.db")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("CURRENCY_CODE", core.DefaultCurrency.Code)
	v.SetDefault("AUTH_USERNAME", "user")
	v.SetDefault("AUTH_PASSWORD", "user")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads the configuration from the process environment.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v after applying defaults. Flags bound to
// v by the caller take precedence over the environment.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)
	return &Config{
		Port:         strings.TrimSpace(v.GetString("PORT")),
		DataBackend:  strings.ToLower(strings.TrimSpace(v.GetString("DATA_BACKEND"))),
		SQLiteDBPath: v.GetString("SQLITE_DB_PATH"),
		Timezone:     v.GetString("TIMEZONE"),
		CurrencyCode: strings.ToUpper(v.GetString("CURRENCY_CODE")),
		AuthUsername: v.GetString("AUTH_USERNAME"),
		AuthPassword: v.GetString("AUTH_PASSWORD"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    strings.ToLower(v.GetString("LOG_FORMAT")),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if _, ok := core.LookupCurrency(c.CurrencyCode); !ok {
		errors = append(errors, fmt.Sprintf("unsupported currency '%s'", c.CurrencyCode))
	}

	if strings.TrimSpace(c.AuthUsername) == "" {
		errors = append(errors, "auth username cannot be empty")
	}
	if c.AuthPassword == "" {
		errors = append(errors, "auth password cannot be empty")
	} else if len(c.AuthPassword) > 72 {
		errors = append(errors, "auth password must be at most 72 bytes")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Currency returns the display currency.
func (c *Config) Currency() core.CurrencyInfo {
	if info, ok := core.LookupCurrency(c.CurrencyCode); ok {
		return info
	}
	return core.DefaultCurrency
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *log.Logger {
	level, _ := log.ParseLevel(c.LogLevel)
	cfg := log.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.LogFormat
	return log.New(cfg)
}
