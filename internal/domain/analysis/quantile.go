package analysis

import (
	"math"
	"sort"
)

// quantile returns the p-quantile of an ascending slice using linear
// interpolation between closest ranks (h = (n-1)p). This is the rule pandas
// qcut and plotly box plots use. Empty input yields NaN.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// finiteSorted returns the non-NaN values of xs in ascending order.
func finiteSorted(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	sort.Float64s(out)
	return out
}

// BoxStats is the five-number summary of a sample.
type BoxStats struct {
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Box computes the five-number summary of xs, ignoring NaN values.
func Box(xs []float64) BoxStats {
	s := finiteSorted(xs)
	return BoxStats{
		Count:  len(s),
		Min:    quantile(s, 0),
		Q1:     quantile(s, 0.25),
		Median: quantile(s, 0.5),
		Q3:     quantile(s, 0.75),
		Max:    quantile(s, 1),
	}
}
