package analysis

import (
	"math"
	"sort"

	"github.com/okian/happiness/internal/domain/model"
)

// YearMean is the mean happiness score of one year.
type YearMean struct {
	Year  int
	Mean  float64
	Count int
}

// YearScore is one point of a country's evolution.
type YearScore struct {
	Year  int
	Score float64
	Rank  int
}

// CountrySeries is a country's score across the report years.
type CountrySeries struct {
	Country string
	Points  []YearScore
}

// CountryStat summarizes a country across every year it appears in.
type CountryStat struct {
	Country string
	Mean    float64
	Years   int
	// Delta is score(LastYear) - score(FirstYear); nil unless both exist.
	Delta *float64
}

// GlobalAverage groups records by year and averages the happiness score per
// group. The result is the per-year mean, not the pooled mean, in ascending
// year order. NaN scores are skipped.
func GlobalAverage(records []model.YearlyRecord) []YearMean {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range records {
		if math.IsNaN(r.HappinessScore) {
			continue
		}
		sums[r.Year] += r.HappinessScore
		counts[r.Year]++
	}

	out := make([]YearMean, 0, len(counts))
	for year, n := range counts {
		out = append(out, YearMean{Year: year, Mean: sums[year] / float64(n), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Evolution returns one series per requested country, in request order, with
// points sorted by year. Countries with no rows get an empty series.
func Evolution(records []model.YearlyRecord, countries []string) []CountrySeries {
	byCountry := make(map[string][]YearScore, len(countries))
	for _, c := range countries {
		byCountry[c] = nil
	}
	for _, r := range records {
		if _, ok := byCountry[r.Country]; ok {
			byCountry[r.Country] = append(byCountry[r.Country], YearScore{Year: r.Year, Score: r.HappinessScore, Rank: r.HappinessRank})
		}
	}

	out := make([]CountrySeries, 0, len(countries))
	seen := make(map[string]bool, len(countries))
	for _, c := range countries {
		if seen[c] {
			continue
		}
		seen[c] = true
		points := byCountry[c]
		sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
		out = append(out, CountrySeries{Country: c, Points: points})
	}
	return out
}

// CountryStats summarizes each series: mean score over its years and the
// change between the first and last report year.
func CountryStats(series []CountrySeries) []CountryStat {
	out := make([]CountryStat, 0, len(series))
	for _, s := range series {
		st := CountryStat{Country: s.Country, Mean: math.NaN()}
		var (
			sum         float64
			first, last *float64
		)
		for _, p := range s.Points {
			if math.IsNaN(p.Score) {
				continue
			}
			sum += p.Score
			st.Years++
			score := p.Score
			switch p.Year {
			case model.FirstYear:
				first = &score
			case model.LastYear:
				last = &score
			}
		}
		if st.Years > 0 {
			st.Mean = sum / float64(st.Years)
		}
		if first != nil && last != nil {
			d := *last - *first
			st.Delta = &d
		}
		out = append(out, st)
	}
	return out
}
