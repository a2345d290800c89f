package chart

import (
	"fmt"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/internal/domain/types"
)

// FeatureStat is the pooled mean and sample deviation of a feature.
type FeatureStat struct {
	Feature string      `json:"feature"`
	Mean    types.Float `json:"mean"`
	Std     types.Float `json:"std"`
}

// FactorsChart is the horizontal bar chart of feature correlations.
type FactorsChart struct {
	Meta
	// Bars are sorted ascending by coefficient.
	Bars      []Bar         `json:"bars"`
	Summary   []FeatureStat `json:"summary"`
	Strongest string        `json:"strongest,omitempty"`
}

// BuildFactors correlates every feature with the score over the pooled dataset.
func BuildFactors(all []model.YearlyRecord) (FactorsChart, error) {
	corr, err := analysis.FeatureCorrelations(all)
	if err != nil {
		return FactorsChart{}, fmt.Errorf("factors: %w", err)
	}
	summary, err := analysis.FeatureSummary(all)
	if err != nil {
		return FactorsChart{}, fmt.Errorf("factors: %w", err)
	}

	c := FactorsChart{
		Meta:    Meta{Kind: KindFactors, Title: Title(KindFactors)},
		Bars:    make([]Bar, 0, len(corr)),
		Summary: make([]FeatureStat, 0, len(summary)),
	}
	for _, co := range corr {
		c.Bars = append(c.Bars, Bar{Label: string(co.Feature), Value: types.Float(co.Coefficient)})
	}
	for _, s := range summary {
		c.Summary = append(c.Summary, FeatureStat{Feature: string(s.Feature), Mean: types.Float(s.Mean), Std: types.Float(s.Std)})
	}
	if f, ok := analysis.StrongestFeature(corr); ok {
		c.Strongest = string(f)
	}
	return c, nil
}
