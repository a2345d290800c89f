// Package chart turns aggregates into chart-ready structures.
//
// The structures are plain data with JSON tags. The HTTP API serves them as
// they are and the PNG renderer draws them; nothing here knows how a chart is
// drawn.
package chart

import (
	"errors"

	"github.com/okian/happiness/internal/domain/types"
)

// Kind names a dashboard chart.
type Kind string

// Dashboard charts.
const (
	KindMap       Kind = "map"
	KindExtremes  Kind = "extremes"
	KindEvolution Kind = "evolution"
	KindFactors   Kind = "factors"
	KindIncome    Kind = "income-groups"
	KindCompare   Kind = "compare"
	KindOverview  Kind = "overview"
)

// Sentinel kinds for chart requests.
var (
	// ErrEmptySelection is returned when a chart needs at least one country.
	ErrEmptySelection = errors.New("no countries selected")
	// ErrTooManyCountries is returned when a selection exceeds the configured limit.
	ErrTooManyCountries = errors.New("too many countries selected")
)

// Meta is shared by every chart. Placeholder charts carry no data and a
// message to show instead.
type Meta struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Placeholder bool   `json:"placeholder"`
	Message     string `json:"message,omitempty"`
}

// Placeholder returns the metadata of an empty chart of kind k.
func Placeholder(k Kind, message string) Meta {
	return Meta{Kind: k, Title: Title(k), Placeholder: true, Message: message}
}

// Title returns the display title of a chart kind.
func Title(k Kind) string {
	switch k {
	case KindMap:
		return "Happiness Score by Country"
	case KindExtremes:
		return "Happiest and Least Happy Countries"
	case KindEvolution:
		return "Happiness Score Evolution"
	case KindFactors:
		return "Correlation of Factors with Happiness Score"
	case KindIncome:
		return "Happiness Score by Income Group"
	case KindCompare:
		return "Factor Comparison"
	case KindOverview:
		return "Overview"
	default:
		return string(k)
	}
}

// Point is one (x, y) sample of a line series.
type Point struct {
	X int         `json:"x"`
	Y types.Float `json:"y"`
}

// Series is one named line.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Bar is one labelled bar.
type Bar struct {
	Label string      `json:"label"`
	Value types.Float `json:"value"`
}
