// Config provides the application-wide configuration for building and
// inspecting timeboards: which holiday-rule file to load, the base unit
// frequency to build the timeline from, and output/logging preferences.
package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/goccy/go-yaml"
)

// Config is the root configuration for the shiftboard CLI and the
// timeboards it builds.
type Config struct {
	// BaseUnitFreq is the calendar frequency of the timeline's base units
	// (e.g. "D", "H", "min").
	BaseUnitFreq string `yaml:"base_unit_freq" env:"SHIFTBOARD_BASE_UNIT_FREQ"`

	// StartDate and EndDate bound the timeline to build, in RFC3339 or
	// "2006-01-02" form.
	StartDate string `yaml:"start_date" env:"SHIFTBOARD_START_DATE"`
	EndDate   string `yaml:"end_date" env:"SHIFTBOARD_END_DATE"`

	// HolidayRulesFile points at a YAML file of holiday rules consumed by
	// internal/holidays to produce timeline amendments.
	HolidayRulesFile string `yaml:"holiday_rules_file" env:"SHIFTBOARD_HOLIDAY_RULES_FILE"`

	// DefaultSchedule is the name given to the timeboard's default schedule,
	// the one used when a lookup names no schedule explicitly.
	DefaultSchedule string `yaml:"default_schedule" env:"SHIFTBOARD_DEFAULT_SCHEDULE"`

	// Layout is the cyclic sequence of labels repeated across the timeline's
	// base units, e.g. ["day","day","night","night","off","off","off"].
	// The string "off" (case-insensitive) marks an off-duty base unit under
	// the default schedule; every other label is on-duty.
	Layout []string `yaml:"layout"`

	// OutputDir is checked by ValidateConfig for unsafe paths; `shiftboard
	// build` does not read it and writes only where its --outdir flag says.
	OutputDir string `yaml:"output_dir" env:"SHIFTBOARD_OUTPUT_DIR"`

	// OutputFormat is checked by ValidateConfig ("text" or "json");
	// `shiftboard inspect` does not read it and always prints a text table.
	OutputFormat string `yaml:"output_format" env:"SHIFTBOARD_OUTPUT_FORMAT"`

	LogLevel string `yaml:"log_level" env:"SHIFTBOARD_LOG_LEVEL"`
	Silent   bool   `yaml:"silent" env:"SHIFTBOARD_SILENT"`
}

// DefaultConfig returns a Config populated with sensible defaults, used as
// the starting point before files and environment variables are overlaid.
func DefaultConfig() Config {
	return Config{
		BaseUnitFreq:    "D",
		DefaultSchedule: "AllWorkdays",
		OutputDir:       "generated",
		OutputFormat:    "text",
		LogLevel:        "info",
	}
}

// NewConfig builds a Config from defaults, overlaid by each YAML file in
// pathConfigs (in order, missing files are skipped), then by environment
// variables.
func NewConfig(pathConfigs ...string) (Config, error) {
	cfg := DefaultConfig()

	for _, path := range pathConfigs {
		bts, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cfg, fmt.Errorf("read config file %q: %w", path, err)
		}
		if len(strings.TrimSpace(string(bts))) == 0 {
			continue
		}
		if err := yaml.Unmarshal(bts, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment variables: %w", err)
	}

	cfg.applyFallbacks()
	return cfg, nil
}

func (cfg *Config) applyFallbacks() {
	if strings.TrimSpace(cfg.BaseUnitFreq) == "" {
		cfg.BaseUnitFreq = "D"
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = Defaults.DefaultOutputDir
	}
	if strings.TrimSpace(cfg.OutputFormat) == "" {
		cfg.OutputFormat = "text"
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.StartDate) == "" {
		cfg.StartDate = time.Now().Format("2006-01-02")
	}
}

// ParsedStartDate parses StartDate, defaulting to today on empty/invalid
// input rather than failing the build.
func (cfg *Config) ParsedStartDate() time.Time {
	return parseConfigDate(cfg.StartDate, time.Now())
}

// ParsedEndDate parses EndDate, defaulting to one year after the start
// date when unset.
func (cfg *Config) ParsedEndDate() time.Time {
	return parseConfigDate(cfg.EndDate, cfg.ParsedStartDate().AddDate(1, 0, 0))
}

func parseConfigDate(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	layouts := []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}

// IsDebugMode reports whether trace/debug logging is requested.
func (cfg *Config) IsDebugMode() bool {
	level := strings.ToLower(cfg.LogLevel)
	return level == LogLevelDebugString || level == LogLevelTraceString
}

// ConfigDefaults holds fallback default values referenced from Config and
// from CLI help text.
type ConfigDefaults struct {
	DefaultOutputDir string
}

// Defaults provides easy access to default configuration values.
var Defaults = ConfigDefaults{
	DefaultOutputDir: "generated",
}
