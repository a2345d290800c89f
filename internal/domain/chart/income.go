package chart

import (
	"fmt"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/internal/domain/types"
)

// Box is one income group's box of happiness scores.
type Box struct {
	Group   string      `json:"group"`
	Lower   types.Float `json:"lower"`
	Upper   types.Float `json:"upper"`
	Count   int         `json:"count"`
	Min     types.Float `json:"min"`
	Q1      types.Float `json:"q1"`
	Median  types.Float `json:"median"`
	Q3      types.Float `json:"q3"`
	Max     types.Float `json:"max"`
	Members []string    `json:"members"`
	// Scores are the members' happiness scores, aligned with Members.
	Scores []types.Float `json:"scores"`
}

// IncomeChart is the box plot of scores per Economy quartile of one year.
type IncomeChart struct {
	Meta
	Year       int           `json:"year"`
	Edges      []types.Float `json:"edges"`
	Boxes      []Box         `json:"boxes"`
	Unassigned []string      `json:"unassigned"`
}

// BuildIncome groups one year's subset into income quartiles.
func BuildIncome(records []model.YearlyRecord, year int) (IncomeChart, error) {
	if len(records) == 0 {
		return IncomeChart{}, fmt.Errorf("income groups %d: %w", year, analysis.ErrInsufficientData)
	}
	p := analysis.GroupByIncome(records)

	c := IncomeChart{
		Meta:       Meta{Kind: KindIncome, Title: fmt.Sprintf("%s (%d)", Title(KindIncome), year)},
		Year:       year,
		Edges:      make([]types.Float, 0, len(p.Edges)),
		Boxes:      make([]Box, 0, len(p.Buckets)),
		Unassigned: make([]string, 0, len(p.Unassigned)),
	}
	for _, e := range p.Edges {
		c.Edges = append(c.Edges, types.Float(e))
	}
	for _, b := range p.Buckets {
		box := Box{
			Group:   string(b.Group),
			Lower:   types.Float(b.Lower),
			Upper:   types.Float(b.Upper),
			Count:   b.Box.Count,
			Min:     types.Float(b.Box.Min),
			Q1:      types.Float(b.Box.Q1),
			Median:  types.Float(b.Box.Median),
			Q3:      types.Float(b.Box.Q3),
			Max:     types.Float(b.Box.Max),
			Members: make([]string, 0, len(b.Members)),
			Scores:  make([]types.Float, 0, len(b.Members)),
		}
		for _, m := range b.Members {
			box.Members = append(box.Members, m.Country)
			box.Scores = append(box.Scores, types.Float(m.HappinessScore))
		}
		c.Boxes = append(c.Boxes, box)
	}
	for _, r := range p.Unassigned {
		c.Unassigned = append(c.Unassigned, r.Country)
	}
	return c, nil
}
