// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and HAPPY_* env vars.
// - Validation errors are *FieldError values matching ErrInvalidConfig.
package config

import (
	"strings"

	"github.com/okian/happiness/internal/domain/model"
)

// Global average overlay scopes.
const (
	ScopeAll      = "all"
	ScopeSelected = "selected"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the <year>_processed.csv files.
	DataDir string `koanf:"data_dir"`

	// DefaultYear is used when a request does not name a year.
	DefaultYear int `koanf:"default_year"`

	// GlobalAverageScope is "all" (every country) or "selected" (the
	// countries shown on the evolution chart).
	GlobalAverageScope string `koanf:"global_average_scope"`

	// DefaultCountries are shown on the evolution chart when none are requested.
	DefaultCountries []string `koanf:"default_countries"`

	// ChartWidthPx and ChartHeightPx size the PNG renderings.
	ChartWidthPx  int `koanf:"chart_width_px"`
	ChartHeightPx int `koanf:"chart_height_px"`

	// MaxEvolutionCountries caps the countries of one evolution request.
	MaxEvolutionCountries int `koanf:"max_evolution_countries"`

	// ShutdownTimeoutSec bounds graceful HTTP shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":8050",
		DataDir:               "data",
		DefaultYear:           model.LastYear,
		GlobalAverageScope:    ScopeAll,
		DefaultCountries:      []string{"Finland", "Spain", "United States", "Brazil", "Japan"},
		ChartWidthPx:          1000,
		ChartHeightPx:         600,
		MaxEvolutionCountries: 10,
		ShutdownTimeoutSec:    10,
	}
}

// Validate checks every field and normalizes list entries.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return invalid("addr", "must not be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return invalid("data_dir", "must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
		c.LogFormat = strings.ToLower(c.LogFormat)
	default:
		return invalid("log_format", "%q is not text or json", c.LogFormat)
	}
	if !model.IsSupportedYear(c.DefaultYear) {
		return invalid("default_year", "%d outside %d-%d", c.DefaultYear, model.FirstYear, model.LastYear)
	}
	switch c.GlobalAverageScope {
	case ScopeAll, ScopeSelected:
	default:
		return invalid("global_average_scope", "%q is not all or selected", c.GlobalAverageScope)
	}
	if c.ChartWidthPx <= 0 || c.ChartHeightPx <= 0 {
		return invalid("chart_width_px", "chart size %dx%d", c.ChartWidthPx, c.ChartHeightPx)
	}
	if c.MaxEvolutionCountries <= 0 {
		return invalid("max_evolution_countries", "must be positive")
	}
	if c.ShutdownTimeoutSec <= 0 {
		return invalid("shutdown_timeout_sec", "must be positive")
	}

	// Entries are names as written; only surrounding space is dropped.
	var countries []string
	for _, name := range c.DefaultCountries {
		if name = strings.TrimSpace(name); name != "" {
			countries = append(countries, name)
		}
	}
	c.DefaultCountries = countries
	if len(c.DefaultCountries) > c.MaxEvolutionCountries {
		return invalid("default_countries", "%d entries exceed max_evolution_countries %d",
			len(c.DefaultCountries), c.MaxEvolutionCountries)
	}
	return nil
}
