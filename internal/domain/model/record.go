// Package model contains domain models passed between layers.
package model

import "math"

// Supported report years. The set is closed; adding a year is a code change.
const (
	FirstYear = 2015
	LastYear  = 2019
)

// Years lists every supported report year in ascending order.
func Years() []int {
	years := make([]int, 0, LastYear-FirstYear+1)
	for y := FirstYear; y <= LastYear; y++ {
		years = append(years, y)
	}
	return years
}

// IsSupportedYear reports whether year is one of the supported report years.
func IsSupportedYear(year int) bool {
	return year >= FirstYear && year <= LastYear
}

// Feature identifies one of the six explanatory factors of the happiness score.
type Feature string

// The six factor columns, in their fixed user-visible order.
const (
	Economy    Feature = "Economy"
	Family     Feature = "Family"
	Health     Feature = "Health"
	Freedom    Feature = "Freedom"
	Trust      Feature = "Trust"
	Generosity Feature = "Generosity"
)

// Features returns the fixed ordered feature set.
func Features() []Feature {
	return []Feature{Economy, Family, Health, Freedom, Trust, Generosity}
}

// Column returns the CSV header the feature is read from.
func (f Feature) Column() string {
	switch f {
	case Economy:
		return "Economy (GDP per Capita)"
	case Health:
		return "Health (Life Expectancy)"
	case Trust:
		return "Trust (Government Corruption)"
	default:
		return string(f)
	}
}

// YearlyRecord is one country row of one report year.
// Missing factor values are stored as NaN.
type YearlyRecord struct {
	Country        string
	HappinessRank  int
	HappinessScore float64
	Economy        float64
	Family         float64
	Health         float64
	Freedom        float64
	Trust          float64
	Generosity     float64
	Year           int
}

// Value returns the value of feature f for the record.
func (r YearlyRecord) Value(f Feature) float64 {
	switch f {
	case Economy:
		return r.Economy
	case Family:
		return r.Family
	case Health:
		return r.Health
	case Freedom:
		return r.Freedom
	case Trust:
		return r.Trust
	case Generosity:
		return r.Generosity
	default:
		return math.NaN()
	}
}
