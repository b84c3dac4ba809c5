// Package config defines process configuration and its loading rules.
// Tuning parameters that change cleaning semantics (threshold, methods) are
// validated here so bad settings fail before any data is touched.
package config

import "github.com/skysupport/temp-qc/internal/domain"

// Config holds all service settings.
type Config struct {
	// Series is the name of the value column in the input CSV.
	Series string `koanf:"series"`

	// SigmaThreshold is the outlier envelope multiplier. Must be > 0.
	SigmaThreshold float64 `koanf:"sigma_threshold"`

	// ImputeMethod selects the gap-filling policy. Only "linear" is defined.
	ImputeMethod string `koanf:"impute_method"`

	// NormalizeMethod selects the rescaling policy: "zscore" or "minmax".
	NormalizeMethod string `koanf:"normalize_method"`

	// ReportFormat selects the report rendering: "text", "json", or "markdown".
	ReportFormat string `koanf:"report_format"`

	// HistoryPath points at the sqlite run-history database. Empty disables
	// run tracking.
	HistoryPath string `koanf:"history_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "json" or "text" log output.
	LogFormat string `koanf:"log_format"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Series:          "temperature",
		SigmaThreshold:  domain.DefaultSigma,
		ImputeMethod:    domain.MethodLinear,
		NormalizeMethod: domain.MethodZScore,
		ReportFormat:    "text",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}
