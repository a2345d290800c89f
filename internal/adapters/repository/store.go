// Package repository holds the combined dataset in memory and answers the
// filters the dashboard needs.
package repository

import (
	"fmt"
	"sort"

	"github.com/okian/happiness/internal/domain/model"
)

// Store provides read access to the combined dataset.
type Store interface {
	// All returns every record in load order.
	All() []model.YearlyRecord
	// ByYear returns the records of one year. Returns ErrNotFound when the
	// dataset holds no row for the year.
	ByYear(year int) ([]model.YearlyRecord, error)
	// ByCountry returns a country's records ordered by year.
	ByCountry(country string) []model.YearlyRecord
	// ByCountries returns the records of every listed country, each
	// country's rows ordered by year. Duplicates and unknown names are skipped.
	ByCountries(countries []string) []model.YearlyRecord
	// GroupByYear returns the records keyed by year.
	GroupByYear() map[int][]model.YearlyRecord
	// Years returns the years present, ascending.
	Years() []int
	// Countries returns the distinct country names, sorted.
	Countries() []string
	// HasCountry reports whether any record names the country.
	HasCountry(country string) bool
	// Count returns the number of records.
	Count() int
}

// MemoryStore is an immutable Store built once from loaded records.
// It is safe for concurrent readers.
type MemoryStore struct {
	records   []model.YearlyRecord
	byYear    map[int][]int
	byCountry map[string][]int
	years     []int
	countries []string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore indexes a copy of records.
func NewMemoryStore(records []model.YearlyRecord) *MemoryStore {
	s := &MemoryStore{
		records:   append([]model.YearlyRecord(nil), records...),
		byYear:    make(map[int][]int),
		byCountry: make(map[string][]int),
	}
	for i, r := range s.records {
		s.byYear[r.Year] = append(s.byYear[r.Year], i)
		s.byCountry[r.Country] = append(s.byCountry[r.Country], i)
	}

	for y := range s.byYear {
		s.years = append(s.years, y)
	}
	sort.Ints(s.years)

	for c, idx := range s.byCountry {
		s.countries = append(s.countries, c)
		sort.SliceStable(idx, func(i, j int) bool { return s.records[idx[i]].Year < s.records[idx[j]].Year })
	}
	sort.Strings(s.countries)
	return s
}

func (s *MemoryStore) pick(idx []int) []model.YearlyRecord {
	out := make([]model.YearlyRecord, len(idx))
	for i, k := range idx {
		out[i] = s.records[k]
	}
	return out
}

func (s *MemoryStore) All() []model.YearlyRecord {
	return append([]model.YearlyRecord(nil), s.records...)
}

func (s *MemoryStore) ByYear(year int) ([]model.YearlyRecord, error) {
	idx, ok := s.byYear[year]
	if !ok {
		return nil, fmt.Errorf("year %d: %w", year, ErrNotFound)
	}
	return s.pick(idx), nil
}

func (s *MemoryStore) ByCountry(country string) []model.YearlyRecord {
	return s.pick(s.byCountry[country])
}

func (s *MemoryStore) ByCountries(countries []string) []model.YearlyRecord {
	seen := make(map[string]bool, len(countries))
	var out []model.YearlyRecord
	for _, c := range countries {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, s.ByCountry(c)...)
	}
	return out
}

func (s *MemoryStore) GroupByYear() map[int][]model.YearlyRecord {
	out := make(map[int][]model.YearlyRecord, len(s.byYear))
	for y, idx := range s.byYear {
		out[y] = s.pick(idx)
	}
	return out
}

func (s *MemoryStore) Years() []int { return append([]int(nil), s.years...) }

func (s *MemoryStore) Countries() []string { return append([]string(nil), s.countries...) }

func (s *MemoryStore) HasCountry(country string) bool {
	_, ok := s.byCountry[country]
	return ok
}

func (s *MemoryStore) Count() int { return len(s.records) }
