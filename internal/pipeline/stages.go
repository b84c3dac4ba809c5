package pipeline

import (
	"github.com/skysupport/temp-qc/internal/config"
	"github.com/skysupport/temp-qc/internal/domain"
	"github.com/skysupport/temp-qc/internal/report"
)

// NewStages builds the default stage implementations from configuration.
// Every selector is validated here, so a bad setting fails before any data
// is loaded.
func NewStages(cfg *config.Config) (Detector, Imputer, Normalizer, Reporter, error) {
	detector, err := domain.NewThreeSigmaDetector(cfg.SigmaThreshold)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	imputer, err := domain.NewLinearImputer(cfg.ImputeMethod)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	normalizer, err := domain.NewNormalizer(cfg.NormalizeMethod)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	reporter, err := report.NewGenerator(cfg.ReportFormat)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return detector, imputer, normalizer, reporter, nil
}
