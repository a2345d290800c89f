// Package probe checks the invariants of a running happiness server over HTTP.
package probe

import (
	"errors"
	"time"
)

// ErrChecksFailed is returned by Run when at least one check fails.
var ErrChecksFailed = errors.New("probe checks failed")

// Config holds configuration for a probe run
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Workers int           // Concurrent requests per check
	Pairs   int           // Country pairs used by the comparison check
	Verbose bool          // Log every request
}

// Result is the outcome of one named check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Requests int
	Duration time.Duration
}

// Report collects every check of a run.
type Report struct {
	Results   []Result
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Failed returns the failing checks.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Wire shapes read from the API. Nullable numbers are pointers.

type countryEntry struct {
	Country string   `json:"country"`
	Rank    int      `json:"rank"`
	Score   *float64 `json:"score"`
}

type extremes struct {
	Placeholder bool         `json:"placeholder"`
	Happiest    countryEntry `json:"happiest"`
	LeastHappy  countryEntry `json:"least_happy"`
}

type bar struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

type factors struct {
	Placeholder bool  `json:"placeholder"`
	Bars        []bar `json:"bars"`
}

type point struct {
	X int      `json:"x"`
	Y *float64 `json:"y"`
}

type series struct {
	Name   string  `json:"name"`
	Points []point `json:"points"`
}

type evolution struct {
	Placeholder bool     `json:"placeholder"`
	Series      []series `json:"series"`
	Overlay     *series  `json:"overlay"`
}

type comparison struct {
	HasData   bool     `json:"has_data"`
	ScoreDiff *float64 `json:"score_diff"`
	Winner    *string  `json:"winner"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
