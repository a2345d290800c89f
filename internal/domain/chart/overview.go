package chart

import (
	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/internal/domain/types"
)

// Overview is the sidebar summary of the whole dataset.
type Overview struct {
	Meta
	Countries  int                 `json:"countries"`
	Years      []int               `json:"years"`
	Features   []string            `json:"features"`
	Records    int                 `json:"records"`
	LatestYear int                 `json:"latest_year"`
	Happiest   *types.CountryEntry `json:"happiest,omitempty"`
	TopFeature string              `json:"top_feature,omitempty"`

	DefaultYear      int      `json:"default_year,omitempty"`
	DefaultCountries []string `json:"default_countries,omitempty"`
}

// BuildOverview summarizes the combined dataset. Parts that cannot be computed
// are left empty.
func BuildOverview(all []model.YearlyRecord) Overview {
	o := Overview{
		Meta:    Meta{Kind: KindOverview, Title: Title(KindOverview)},
		Records: len(all),
	}
	countries := make(map[string]struct{})
	years := make(map[int]struct{})
	for _, r := range all {
		countries[r.Country] = struct{}{}
		years[r.Year] = struct{}{}
		if r.Year > o.LatestYear {
			o.LatestYear = r.Year
		}
	}
	o.Countries = len(countries)
	for _, y := range model.Years() {
		if _, ok := years[y]; ok {
			o.Years = append(o.Years, y)
		}
	}
	for _, f := range model.Features() {
		o.Features = append(o.Features, string(f))
	}

	var latest []model.YearlyRecord
	for _, r := range all {
		if r.Year == o.LatestYear {
			latest = append(latest, r)
		}
	}
	if top, err := analysis.Happiest(latest); err == nil {
		e := entry(top)
		o.Happiest = &e
	}
	if corr, err := analysis.FeatureCorrelations(all); err == nil {
		if f, ok := analysis.StrongestFeature(corr); ok {
			o.TopFeature = string(f)
		}
	}
	return o
}
