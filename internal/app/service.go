// Package service provides the dashboard context object that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/happiness/internal/adapters/dataset"
	"github.com/okian/happiness/internal/adapters/render"
	repository "github.com/okian/happiness/internal/adapters/repository"
	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
	"github.com/okian/happiness/pkg/metrics"
)

// Loader reads the combined dataset.
type Loader interface {
	LoadAll(ctx context.Context) ([]model.YearlyRecord, error)
}

// Service loads the dataset once and answers every dashboard query from it.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader   Loader
	store    repository.Store
	renderer *render.Renderer

	// Configuration
	dataDir          string
	defaultYear      int
	defaultCountries []string
	scope            chart.AverageScope
	maxCountries     int

	// State
	started  bool
	loadedAt time.Time
	loadTook time.Duration

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:          "data",
		defaultYear:      model.LastYear,
		defaultCountries: []string{"Finland", "Spain", "United States", "Brazil", "Japan"},
		scope:            chart.ScopeAll,
		maxCountries:     10,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset. Any load error is returned and the service stays
// stopped; there is no partial dataset.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.renderer == nil {
		s.renderer = render.New()
	}

	s.logger.Info(ctx, "starting happiness service...", logger.String("dataDir", s.dataDir))

	if s.store == nil {
		if s.loader == nil {
			s.loader = dataset.NewLoader(dataset.WithDataDir(s.dataDir), dataset.WithLogger(s.logger))
		}
		start := time.Now()
		records, err := s.loader.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.loadTook = time.Since(start)
		s.store = repository.NewMemoryStore(records)
	}
	s.loadedAt = time.Now()

	s.started = true
	s.logger.Info(ctx, "happiness service started",
		logger.Int("records", s.store.Count()),
		logger.Int("countries", len(s.store.Countries())),
		logger.Duration("loadTook", s.loadTook),
	)
	return nil
}

// Stop marks the service stopped. The loaded dataset is dropped only when it
// came from the loader.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.loader != nil {
		s.store = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "happiness service stopped")
}

func (s *Service) current() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// resolveYear maps zero to the default year and rejects unsupported years.
func (s *Service) resolveYear(year int) (int, error) {
	if year == 0 {
		return s.defaultYear, nil
	}
	if !model.IsSupportedYear(year) {
		return 0, fmt.Errorf("year %d: %w", year, model.ErrUnsupportedYear)
	}
	return year, nil
}

// DefaultCountries returns the evolution selection used when a request names none.
func (s *Service) DefaultCountries() []string {
	return append([]string(nil), s.defaultCountries...)
}

// DefaultYear returns the year used when a request names none.
func (s *Service) DefaultYear() int { return s.defaultYear }

// Overview summarizes the dataset for the sidebar.
func (s *Service) Overview(ctx context.Context) (chart.Overview, error) {
	store, err := s.current()
	if err != nil {
		return chart.Overview{}, err
	}
	start := time.Now()
	o := chart.BuildOverview(store.All())
	o.DefaultYear = s.defaultYear
	o.DefaultCountries = s.DefaultCountries()
	s.built(chart.KindOverview, start)
	return o, nil
}

// Countries returns the sorted distinct country names.
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return store.Countries(), nil
}

// Records returns the combined dataset.
func (s *Service) Records(ctx context.Context) ([]model.YearlyRecord, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return store.All(), nil
}

// Map returns the choropleth of year, or a placeholder when the year has no rows.
func (s *Service) Map(ctx context.Context, year int) (chart.MapChart, error) {
	store, year, err := s.yearQuery(year)
	if err != nil {
		return chart.MapChart{}, err
	}
	return buildChart(ctx, s, chart.KindMap,
		func() (chart.MapChart, error) {
			rows, err := yearRows(store, year)
			if err != nil {
				return chart.MapChart{}, err
			}
			return chart.BuildMap(rows, year)
		},
		func(m chart.Meta) chart.MapChart { return chart.MapChart{Meta: m, Year: year} },
	), nil
}

// Extremes returns the happiest and least happy country of year.
func (s *Service) Extremes(ctx context.Context, year int) (chart.Extremes, error) {
	store, year, err := s.yearQuery(year)
	if err != nil {
		return chart.Extremes{}, err
	}
	return buildChart(ctx, s, chart.KindExtremes,
		func() (chart.Extremes, error) {
			rows, err := yearRows(store, year)
			if err != nil {
				return chart.Extremes{}, err
			}
			return chart.BuildExtremes(rows, year)
		},
		func(m chart.Meta) chart.Extremes { return chart.Extremes{Meta: m, Year: year} },
	), nil
}

// Evolution returns the score lines of the requested countries. An empty
// selection yields a placeholder; more than the configured maximum is an error.
func (s *Service) Evolution(ctx context.Context, req chart.EvolutionRequest) (chart.EvolutionChart, error) {
	store, err := s.current()
	if err != nil {
		return chart.EvolutionChart{}, err
	}
	if s.maxCountries > 0 && len(req.Countries) > s.maxCountries {
		return chart.EvolutionChart{}, fmt.Errorf("%d countries, limit %d: %w",
			len(req.Countries), s.maxCountries, chart.ErrTooManyCountries)
	}
	if req.Scope == "" {
		req.Scope = s.scope
	}
	return buildChart(ctx, s, chart.KindEvolution,
		func() (chart.EvolutionChart, error) {
			c, err := chart.BuildEvolution(store.All(), req)
			if err != nil {
				return c, err
			}
			for _, name := range req.Countries {
				if !store.HasCountry(name) {
					c.Unknown = append(c.Unknown, name)
				}
			}
			if len(c.Unknown) > 0 {
				s.logger.Debug(ctx, "evolution names unknown countries",
					logger.Int("unknown", len(c.Unknown)), logger.Int("requested", len(req.Countries)))
			}
			return c, nil
		},
		func(m chart.Meta) chart.EvolutionChart { return chart.EvolutionChart{Meta: m} },
	), nil
}

// Factors returns the feature correlations over the pooled dataset.
func (s *Service) Factors(ctx context.Context) (chart.FactorsChart, error) {
	store, err := s.current()
	if err != nil {
		return chart.FactorsChart{}, err
	}
	return buildChart(ctx, s, chart.KindFactors,
		func() (chart.FactorsChart, error) { return chart.BuildFactors(store.All()) },
		func(m chart.Meta) chart.FactorsChart { return chart.FactorsChart{Meta: m} },
	), nil
}

// IncomeGroups returns the income quartile box plot of year.
func (s *Service) IncomeGroups(ctx context.Context, year int) (chart.IncomeChart, error) {
	store, year, err := s.yearQuery(year)
	if err != nil {
		return chart.IncomeChart{}, err
	}
	return buildChart(ctx, s, chart.KindIncome,
		func() (chart.IncomeChart, error) {
			rows, err := yearRows(store, year)
			if err != nil {
				return chart.IncomeChart{}, err
			}
			return chart.BuildIncome(rows, year)
		},
		func(m chart.Meta) chart.IncomeChart { return chart.IncomeChart{Meta: m, Year: year} },
	), nil
}

// Compare returns the factor comparison of two countries in year. Absent
// countries give a chart with HasData false.
func (s *Service) Compare(ctx context.Context, a, b string, year int) (chart.CompareChart, error) {
	store, year, err := s.yearQuery(year)
	if err != nil {
		return chart.CompareChart{}, err
	}
	start := time.Now()
	c := chart.BuildCompare(store.ByCountries([]string{a, b}), a, b, year)
	if !c.HasData {
		s.logger.Debug(ctx, "no data for comparison",
			logger.String("a", a), logger.String("b", b), logger.Int("year", year))
	}
	s.built(chart.KindCompare, start)
	return c, nil
}

func (s *Service) yearQuery(year int) (repository.Store, int, error) {
	store, err := s.current()
	if err != nil {
		return nil, 0, err
	}
	year, err = s.resolveYear(year)
	if err != nil {
		return nil, 0, err
	}
	return store, year, nil
}

// yearRows returns the rows of year; a year absent from the dataset is an error
// so the caller can substitute a placeholder.
func yearRows(store repository.Store, year int) ([]model.YearlyRecord, error) {
	rows, err := store.ByYear(year)
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}
	return rows, nil
}

// buildChart runs build and substitutes a placeholder when it fails. Failures
// are logged and counted; they never reach the caller.
func buildChart[T any](ctx context.Context, s *Service, kind chart.Kind, build func() (T, error), placeholder func(chart.Meta) T) T {
	start := time.Now()
	c, err := build()
	if err != nil {
		reason := failureReason(err)
		s.logger.Warn(ctx, "chart replaced by placeholder",
			logger.String("chart", string(kind)),
			logger.String("reason", reason),
			logger.Error(err),
		)
		metrics.RecordChartFailure(string(kind), reason)
		return placeholder(chart.Placeholder(kind, placeholderMessage(err)))
	}
	s.built(kind, start)
	return c
}

func (s *Service) built(kind chart.Kind, start time.Time) {
	metrics.RecordChartBuild(string(kind), float64(time.Since(start).Microseconds())/1000)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, chart.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, repository.ErrNotFound):
		return "missing_year"
	case errors.Is(err, analysis.ErrInsufficientData):
		return "insufficient_data"
	default:
		return "internal"
	}
}

func placeholderMessage(err error) string {
	switch {
	case errors.Is(err, chart.ErrEmptySelection):
		return "Select at least one country to see its evolution"
	case errors.Is(err, repository.ErrNotFound):
		return "No data for this year"
	case errors.Is(err, analysis.ErrInsufficientData):
		return "Not enough data to draw this chart"
	default:
		return "This chart is unavailable"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"dataDir":          s.dataDir,
		"defaultYear":      s.defaultYear,
		"defaultCountries": append([]string(nil), s.defaultCountries...),
		"averageScope":     string(s.scope),
	}

	if s.started && s.store != nil {
		stats["records"] = s.store.Count()
		stats["countries"] = len(s.store.Countries())
		stats["years"] = s.store.Years()
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["loadMillis"] = s.loadTook.Milliseconds()

		metrics.UpdateDatasetRecordsTotal(s.store.Count())
	}

	return stats
}
