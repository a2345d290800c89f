package chart

import (
	"fmt"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/country"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/internal/domain/types"
)

// MapPoint is one country on the choropleth.
type MapPoint struct {
	Display   string      `json:"display"`
	Canonical string      `json:"canonical"`
	Score     types.Float `json:"score"`
	Rank      int         `json:"rank"`
}

// YearStats summarizes a report year.
type YearStats struct {
	TotalCountries int                 `json:"total_countries"`
	Happiest       *types.CountryEntry `json:"happiest,omitempty"`
	LeastHappy     *types.CountryEntry `json:"least_happy,omitempty"`
}

// MapChart is the choropleth of one year.
type MapChart struct {
	Meta
	Year   int        `json:"year"`
	Points []MapPoint `json:"points"`
	Stats  YearStats  `json:"stats"`
}

// Extremes holds the happiest and least happy country of a year.
type Extremes struct {
	Meta
	Year       int                `json:"year"`
	Happiest   types.CountryEntry `json:"happiest"`
	LeastHappy types.CountryEntry `json:"least_happy"`
}

func entry(r model.YearlyRecord) types.CountryEntry {
	return types.CountryEntry{Country: r.Country, Rank: r.HappinessRank, Score: types.Float(r.HappinessScore), Year: r.Year}
}

// BuildMap places every country of one year's subset on the map using its
// canonical name, and adds the year statistics.
func BuildMap(records []model.YearlyRecord, year int) (MapChart, error) {
	if len(records) == 0 {
		return MapChart{}, fmt.Errorf("map %d: %w", year, analysis.ErrInsufficientData)
	}
	c := MapChart{
		Meta:   Meta{Kind: KindMap, Title: fmt.Sprintf("%s (%d)", Title(KindMap), year)},
		Year:   year,
		Points: make([]MapPoint, 0, len(records)),
	}
	for _, r := range records {
		display, canonical := country.Normalize(r.Country)
		c.Points = append(c.Points, MapPoint{
			Display:   display,
			Canonical: canonical,
			Score:     types.Float(r.HappinessScore),
			Rank:      r.HappinessRank,
		})
	}

	c.Stats.TotalCountries = len(records)
	if ext, err := BuildExtremes(records, year); err == nil {
		c.Stats.Happiest = &ext.Happiest
		c.Stats.LeastHappy = &ext.LeastHappy
	}
	return c, nil
}

// BuildExtremes finds the happiest and least happy country of one year's subset.
func BuildExtremes(records []model.YearlyRecord, year int) (Extremes, error) {
	top, err := analysis.Happiest(records)
	if err != nil {
		return Extremes{}, fmt.Errorf("extremes %d: %w", year, err)
	}
	bottom, err := analysis.LeastHappy(records)
	if err != nil {
		return Extremes{}, fmt.Errorf("extremes %d: %w", year, err)
	}
	return Extremes{
		Meta:       Meta{Kind: KindExtremes, Title: Title(KindExtremes)},
		Year:       year,
		Happiest:   entry(top),
		LeastHappy: entry(bottom),
	}, nil
}
