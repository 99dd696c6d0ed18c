package core

import (
	"fmt"
	"strings"
)

// ValidationIssue is a single validation error or warning, carrying enough
// context (field, offending value) to print a useful message.
type ValidationIssue struct {
	Type    string
	Field   string
	Value   string
	Message string
}

func (vi ValidationIssue) Error() string {
	var parts []string
	if vi.Field != "" {
		parts = append(parts, fmt.Sprintf("field %q", vi.Field))
	}
	if vi.Value != "" {
		parts = append(parts, fmt.Sprintf("value %q", vi.Value))
	}
	location := strings.Join(parts, ", ")
	if location != "" {
		return fmt.Sprintf("%s: %s", location, vi.Message)
	}
	return vi.Message
}

// ValidationResult aggregates the errors and warnings from validating a
// configuration or a holiday-rule file.
type ValidationResult struct {
	IsValid  bool
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

// AddError records a validation error and marks the result invalid.
func (vr *ValidationResult) AddError(issue ValidationIssue) {
	vr.Errors = append(vr.Errors, issue)
	vr.IsValid = false
}

// AddWarning records a non-fatal validation warning.
func (vr *ValidationResult) AddWarning(issue ValidationIssue) {
	vr.Warnings = append(vr.Warnings, issue)
}

// HasErrors reports whether any error was recorded.
func (vr *ValidationResult) HasErrors() bool { return len(vr.Errors) > 0 }

// HasWarnings reports whether any warning was recorded.
func (vr *ValidationResult) HasWarnings() bool { return len(vr.Warnings) > 0 }

// Summary returns a short human-readable status line.
func (vr *ValidationResult) Summary() string {
	if vr.IsValid && !vr.HasWarnings() {
		return "validation successful"
	}
	if !vr.IsValid {
		return fmt.Sprintf("validation failed with %d error(s)", len(vr.Errors))
	}
	return fmt.Sprintf("validation passed with %d warning(s)", len(vr.Warnings))
}

// ValidateConfig checks a Config for structural problems: a missing base
// unit frequency, reversed date ranges, unsafe output paths. The frequency
// token is only checked for being non-empty, not parsed.
func ValidateConfig(cfg *Config) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(cfg.BaseUnitFreq) == "" {
		result.AddError(ValidationIssue{
			Type: "missing_required", Field: "base_unit_freq",
			Message: "base unit frequency is required",
		})
	}

	if strings.Contains(cfg.OutputDir, "..") {
		result.AddError(ValidationIssue{
			Type: "security_violation", Field: "output_dir", Value: cfg.OutputDir,
			Message: "output directory path cannot contain '..'",
		})
	}

	if cfg.HolidayRulesFile != "" && strings.Contains(cfg.HolidayRulesFile, "..") {
		result.AddError(ValidationIssue{
			Type: "security_violation", Field: "holiday_rules_file", Value: cfg.HolidayRulesFile,
			Message: "holiday rules path cannot contain '..'",
		})
	}

	if cfg.OutputFormat != "text" && cfg.OutputFormat != "json" {
		result.AddWarning(ValidationIssue{
			Type: "unknown_value", Field: "output_format", Value: cfg.OutputFormat,
			Message: "expected \"text\" or \"json\", falling back to \"text\"",
		})
	}

	logLevelNames := KnownLogLevelNames()
	level := strings.ToLower(cfg.LogLevel)
	known := false
	for _, l := range logLevelNames {
		if level == l {
			known = true
			break
		}
	}
	if !known {
		suggestion := SuggestCorrection(level, logLevelNames)
		issue := ValidationIssue{
			Type: "invalid_value", Field: "log_level", Value: cfg.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logLevelNames, ", ")),
		}
		if suggestion != "" {
			issue.Message += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		result.AddError(issue)
	}

	if !cfg.ParsedStartDate().Before(cfg.ParsedEndDate()) {
		result.AddError(ValidationIssue{
			Type: "invalid_range", Field: "start_date/end_date",
			Message: "start_date must be before end_date",
		})
	}

	return result
}
