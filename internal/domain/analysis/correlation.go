package analysis

import (
	"math"
	"sort"

	"github.com/okian/happiness/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// minCorrelationRows is the smallest sample on which Pearson's r is defined.
const minCorrelationRows = 2

// Correlation is the Pearson coefficient of one feature against the score.
type Correlation struct {
	Feature     model.Feature
	Coefficient float64
}

// FeatureStat is the pooled mean and sample standard deviation of a feature.
type FeatureStat struct {
	Feature model.Feature
	Mean    float64
	Std     float64
}

// Pearson returns the Pearson correlation of x and y over the positions where
// both are defined. The result is clamped to [-1, 1]; collinear inputs can
// otherwise land an ulp outside.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return math.NaN(), ErrInsufficientData
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < minCorrelationRows {
		return math.NaN(), ErrInsufficientData
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r)), nil
}

// FeatureCorrelations correlates every feature with the happiness score over
// all records pooled together, sorted ascending by coefficient. Undefined
// coefficients (zero variance) are NaN and sort last.
func FeatureCorrelations(records []model.YearlyRecord) ([]Correlation, error) {
	if len(records) < minCorrelationRows {
		return nil, ErrInsufficientData
	}
	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.HappinessScore
	}

	out := make([]Correlation, 0, len(model.Features()))
	for _, f := range model.Features() {
		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = r.Value(f)
		}
		coef, err := Pearson(values, scores)
		if err != nil {
			coef = math.NaN()
		}
		out = append(out, Correlation{Feature: f, Coefficient: coef})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Coefficient, out[j].Coefficient
		if math.IsNaN(a) || math.IsNaN(b) {
			return !math.IsNaN(a) && math.IsNaN(b)
		}
		return a < b
	})
	return out, nil
}

// StrongestFeature returns the feature with the highest defined coefficient.
func StrongestFeature(corr []Correlation) (model.Feature, bool) {
	var (
		best  Correlation
		found bool
	)
	for _, c := range corr {
		if math.IsNaN(c.Coefficient) {
			continue
		}
		if !found || c.Coefficient > best.Coefficient {
			best = c
			found = true
		}
	}
	return best.Feature, found
}

// FeatureSummary returns the pooled mean and sample standard deviation of
// every feature, sorted by mean descending. NaN values are skipped.
func FeatureSummary(records []model.YearlyRecord) ([]FeatureStat, error) {
	if len(records) == 0 {
		return nil, ErrInsufficientData
	}
	out := make([]FeatureStat, 0, len(model.Features()))
	for _, f := range model.Features() {
		values := make([]float64, 0, len(records))
		for _, r := range records {
			if v := r.Value(f); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		fs := FeatureStat{Feature: f, Mean: math.NaN(), Std: math.NaN()}
		switch len(values) {
		case 0:
		case 1:
			fs.Mean = values[0]
		default:
			fs.Mean, fs.Std = stat.MeanStdDev(values, nil)
		}
		out = append(out, fs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Mean, out[j].Mean
		if math.IsNaN(a) || math.IsNaN(b) {
			return !math.IsNaN(a) && math.IsNaN(b)
		}
		return a > b
	})
	return out, nil
}
