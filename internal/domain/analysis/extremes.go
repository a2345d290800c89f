// Package analysis implements the pure aggregations behind the dashboard charts.
//
// Every function takes an immutable slice of records and returns new values;
// nothing here reads files or keeps state.
package analysis

import (
	"math"

	"github.com/okian/happiness/internal/domain/model"
)

// Happiest returns the record with the highest happiness score.
// Exact ties prefer the lower rank field, then the alphabetically first country.
func Happiest(records []model.YearlyRecord) (model.YearlyRecord, error) {
	return extreme(records, true)
}

// LeastHappy returns the record with the lowest happiness score.
// Exact ties prefer the higher rank field, then the alphabetically first country.
func LeastHappy(records []model.YearlyRecord) (model.YearlyRecord, error) {
	return extreme(records, false)
}

func extreme(records []model.YearlyRecord, happiest bool) (model.YearlyRecord, error) {
	var (
		best  model.YearlyRecord
		found bool
	)
	for _, r := range records {
		if math.IsNaN(r.HappinessScore) {
			continue
		}
		if !found || outranks(r, best, happiest) {
			best = r
			found = true
		}
	}
	if !found {
		return model.YearlyRecord{}, ErrInsufficientData
	}
	return best, nil
}

// outranks reports whether a should replace b as the extreme.
func outranks(a, b model.YearlyRecord, happiest bool) bool {
	if a.HappinessScore != b.HappinessScore {
		if happiest {
			return a.HappinessScore > b.HappinessScore
		}
		return a.HappinessScore < b.HappinessScore
	}
	if a.HappinessRank > 0 && b.HappinessRank > 0 && a.HappinessRank != b.HappinessRank {
		if happiest {
			return a.HappinessRank < b.HappinessRank
		}
		return a.HappinessRank > b.HappinessRank
	}
	return a.Country < b.Country
}
