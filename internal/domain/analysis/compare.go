package analysis

import "github.com/okian/happiness/internal/domain/model"

// FactorValue is one long-format row of a two-country comparison.
type FactorValue struct {
	Country string
	Feature model.Feature
	Value   float64
}

// Comparison is the factor-by-factor comparison of two countries in a year.
// HasData is false when either country has no row for the year; consumers
// must then skip rendering.
type Comparison struct {
	CountryA  string
	CountryB  string
	Year      int
	HasData   bool
	Factors   []FactorValue
	ScoreA    float64
	ScoreB    float64
	ScoreDiff float64
	// Winner is the country with the higher score; nil on a tie.
	Winner *string
}

// Compare reshapes the two countries' factor values into long format and
// computes score(a) - score(b).
func Compare(records []model.YearlyRecord, a, b string, year int) Comparison {
	c := Comparison{CountryA: a, CountryB: b, Year: year}

	ra, okA := find(records, a, year)
	rb, okB := find(records, b, year)
	if !okA || !okB {
		return c
	}

	c.HasData = true
	features := model.Features()
	c.Factors = make([]FactorValue, 0, 2*len(features))
	for _, r := range []model.YearlyRecord{ra, rb} {
		for _, f := range features {
			c.Factors = append(c.Factors, FactorValue{Country: r.Country, Feature: f, Value: r.Value(f)})
		}
	}

	c.ScoreA = ra.HappinessScore
	c.ScoreB = rb.HappinessScore
	c.ScoreDiff = ra.HappinessScore - rb.HappinessScore
	switch {
	case c.ScoreDiff > 0:
		w := a
		c.Winner = &w
	case c.ScoreDiff < 0:
		w := b
		c.Winner = &w
	}
	return c
}

func find(records []model.YearlyRecord, country string, year int) (model.YearlyRecord, bool) {
	for _, r := range records {
		if r.Country == country && r.Year == year {
			return r, true
		}
	}
	return model.YearlyRecord{}, false
}
