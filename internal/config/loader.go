package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/skysupport/temp-qc/internal/domain"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TEMPQC_CONFIG is set
//  3. env (prefix TEMPQC_), e.g. TEMPQC_SIGMA_THRESHOLD, TEMPQC_LOG_LEVEL
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("TEMPQC_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Map env keys like TEMPQC_SIGMA_THRESHOLD -> sigma_threshold, keeping
	// underscores to match the koanf tags on Config.
	envProvider := env.Provider("TEMPQC_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "tempqc_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate fails fast on settings the pipeline would reject anyway, so the
// user sees a configuration error before any file is opened.
func (c *Config) validate() error {
	if c.Series == "" {
		return fmt.Errorf("%w: series must not be empty", ErrInvalidConfig)
	}
	if c.SigmaThreshold <= 0 {
		return fmt.Errorf("%w: sigma_threshold must be > 0, got %g", ErrInvalidConfig, c.SigmaThreshold)
	}
	if c.ImputeMethod != domain.MethodLinear {
		return fmt.Errorf("%w: unknown impute_method %q", ErrInvalidConfig, c.ImputeMethod)
	}
	switch c.NormalizeMethod {
	case domain.MethodZScore, domain.MethodMinMax:
	default:
		return fmt.Errorf("%w: unknown normalize_method %q", ErrInvalidConfig, c.NormalizeMethod)
	}
	switch c.ReportFormat {
	case "text", "json", "markdown":
	default:
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	return nil
}
