package chart

import (
	"fmt"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/internal/domain/types"
)

// FactorBar is one bar of the grouped comparison chart.
type FactorBar struct {
	Country string      `json:"country"`
	Feature string      `json:"feature"`
	Value   types.Float `json:"value"`
}

// CompareChart is the grouped bar chart of two countries' factors.
// When HasData is false the chart is empty and must not be drawn.
type CompareChart struct {
	Meta
	Year      int         `json:"year"`
	CountryA  string      `json:"country_a"`
	CountryB  string      `json:"country_b"`
	HasData   bool        `json:"has_data"`
	Factors   []FactorBar `json:"factors,omitempty"`
	ScoreA    types.Float `json:"score_a"`
	ScoreB    types.Float `json:"score_b"`
	ScoreDiff types.Float `json:"score_diff"`
	Winner    *string     `json:"winner"`
}

// BuildCompare compares two countries in a year. A missing country is not an
// error; the chart is returned with HasData false.
func BuildCompare(all []model.YearlyRecord, a, b string, year int) CompareChart {
	cmp := analysis.Compare(all, a, b, year)
	c := CompareChart{
		Meta:     Meta{Kind: KindCompare, Title: fmt.Sprintf("%s: %s vs %s (%d)", Title(KindCompare), a, b, year)},
		Year:     year,
		CountryA: a,
		CountryB: b,
		HasData:  cmp.HasData,
	}
	if !cmp.HasData {
		c.Message = "No data for the selected countries in this year"
		return c
	}
	c.Factors = make([]FactorBar, 0, len(cmp.Factors))
	for _, f := range cmp.Factors {
		c.Factors = append(c.Factors, FactorBar{Country: f.Country, Feature: string(f.Feature), Value: types.Float(f.Value)})
	}
	c.ScoreA = types.Float(cmp.ScoreA)
	c.ScoreB = types.Float(cmp.ScoreB)
	c.ScoreDiff = types.Float(cmp.ScoreDiff)
	c.Winner = cmp.Winner
	return c
}
