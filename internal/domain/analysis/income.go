package analysis

import (
	"math"

	"github.com/okian/happiness/internal/domain/model"
)

// IncomeGroup labels one economy quartile of a year.
type IncomeGroup string

// Quartile labels in ascending order of Economy.
const (
	LowIncome         IncomeGroup = "LowIncome"
	LowerMiddleIncome IncomeGroup = "LowerMiddleIncome"
	UpperMiddleIncome IncomeGroup = "UpperMiddleIncome"
	HighIncome        IncomeGroup = "HighIncome"
)

// IncomeGroups returns the four labels in ascending order.
func IncomeGroups() []IncomeGroup {
	return []IncomeGroup{LowIncome, LowerMiddleIncome, UpperMiddleIncome, HighIncome}
}

// IncomeBucket is one quartile: its Economy bounds, its members and the
// distribution of their happiness scores.
type IncomeBucket struct {
	Group   IncomeGroup
	Lower   float64
	Upper   float64
	Members []model.YearlyRecord
	Box     BoxStats
}

// IncomePartition is the quartile grouping of one year's subset.
type IncomePartition struct {
	Edges   [5]float64
	Buckets []IncomeBucket
	// Unassigned holds rows whose Economy value is missing.
	Unassigned []model.YearlyRecord
}

// GroupByIncome partitions one year's records into Economy quartiles.
//
// Edges are the 0, 25, 50, 75 and 100th percentiles of the subset, with linear
// interpolation on sorted order. Bins are right-closed and the lowest edge is
// included in the first bin, so every row with an Economy value lands in exactly
// one bucket. With fewer than four rows some buckets may be empty.
func GroupByIncome(records []model.YearlyRecord) IncomePartition {
	economies := make([]float64, 0, len(records))
	for _, r := range records {
		economies = append(economies, r.Economy)
	}
	sorted := finiteSorted(economies)

	var p IncomePartition
	for i := range p.Edges {
		p.Edges[i] = quantile(sorted, float64(i)/4)
	}

	groups := IncomeGroups()
	p.Buckets = make([]IncomeBucket, len(groups))
	for i, g := range groups {
		p.Buckets[i] = IncomeBucket{Group: g, Lower: p.Edges[i], Upper: p.Edges[i+1]}
	}

	for _, r := range records {
		if math.IsNaN(r.Economy) {
			p.Unassigned = append(p.Unassigned, r)
			continue
		}
		i := bucketIndex(p.Edges, r.Economy)
		p.Buckets[i].Members = append(p.Buckets[i].Members, r)
	}

	for i := range p.Buckets {
		scores := make([]float64, len(p.Buckets[i].Members))
		for j, m := range p.Buckets[i].Members {
			scores[j] = m.HappinessScore
		}
		p.Buckets[i].Box = Box(scores)
	}
	return p
}

// bucketIndex finds the first right-closed bin whose upper edge holds v.
func bucketIndex(edges [5]float64, v float64) int {
	for i := 1; i < len(edges)-1; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return len(edges) - 2
}
