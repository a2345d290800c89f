package chart

import (
	"fmt"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/internal/domain/types"
)

// AverageScope selects the records the global average overlay is computed from.
type AverageScope string

// Overlay scopes.
const (
	ScopeAll      AverageScope = "all"
	ScopeSelected AverageScope = "selected"
)

// ParseScope validates a scope name.
func ParseScope(s string) (AverageScope, error) {
	switch AverageScope(s) {
	case ScopeAll, ScopeSelected:
		return AverageScope(s), nil
	default:
		return "", fmt.Errorf("unknown average scope %q", s)
	}
}

// CountryStat is the summary row shown under the evolution chart.
type CountryStat struct {
	Country string       `json:"country"`
	Mean    types.Float  `json:"mean"`
	Years   int          `json:"years"`
	Delta   *types.Float `json:"delta,omitempty"`
}

// EvolutionChart is the score of selected countries across years, optionally
// overlaid with the per-year global average.
type EvolutionChart struct {
	Meta
	Series  []Series      `json:"series"`
	Overlay *Series       `json:"overlay,omitempty"`
	Scope   AverageScope  `json:"scope,omitempty"`
	Stats   []CountryStat `json:"stats"`
	// Unknown lists requested countries absent from the dataset; their series are empty.
	Unknown []string `json:"unknown,omitempty"`
}

// EvolutionRequest describes one evolution chart.
type EvolutionRequest struct {
	Countries []string
	Global    bool
	Scope     AverageScope
}

// BuildEvolution draws one line per requested country from the full dataset.
// The overlay is the per-year mean of every record, or of the selected
// countries' records when Scope is ScopeSelected.
func BuildEvolution(all []model.YearlyRecord, req EvolutionRequest) (EvolutionChart, error) {
	if len(req.Countries) == 0 {
		return EvolutionChart{}, fmt.Errorf("evolution: %w", ErrEmptySelection)
	}

	series := analysis.Evolution(all, req.Countries)
	c := EvolutionChart{
		Meta:   Meta{Kind: KindEvolution, Title: Title(KindEvolution)},
		Series: make([]Series, 0, len(series)),
		Stats:  make([]CountryStat, 0, len(series)),
	}
	for _, s := range series {
		line := Series{Name: s.Country, Points: make([]Point, 0, len(s.Points))}
		for _, p := range s.Points {
			line.Points = append(line.Points, Point{X: p.Year, Y: types.Float(p.Score)})
		}
		c.Series = append(c.Series, line)
	}
	for _, st := range analysis.CountryStats(series) {
		c.Stats = append(c.Stats, CountryStat{
			Country: st.Country,
			Mean:    types.Float(st.Mean),
			Years:   st.Years,
			Delta:   types.FloatPtr(st.Delta),
		})
	}

	if req.Global {
		scope := req.Scope
		if scope == "" {
			scope = ScopeAll
		}
		source := all
		if scope == ScopeSelected {
			source = selected(all, req.Countries)
		}
		overlay := GlobalAverageSeries(source)
		c.Overlay = &overlay
		c.Scope = scope
	}
	return c, nil
}

// GlobalAverageSeries is the per-year mean score as a line.
func GlobalAverageSeries(records []model.YearlyRecord) Series {
	means := analysis.GlobalAverage(records)
	s := Series{Name: "Global Average", Points: make([]Point, 0, len(means))}
	for _, m := range means {
		s.Points = append(s.Points, Point{X: m.Year, Y: types.Float(m.Mean)})
	}
	return s
}

func selected(all []model.YearlyRecord, countries []string) []model.YearlyRecord {
	want := make(map[string]bool, len(countries))
	for _, c := range countries {
		want[c] = true
	}
	var out []model.YearlyRecord
	for _, r := range all {
		if want[r.Country] {
			out = append(out, r)
		}
	}
	return out
}
