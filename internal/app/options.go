package service

import (
	"github.com/okian/happiness/internal/adapters/render"
	repository "github.com/okian/happiness/internal/adapters/repository"
	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the directory the yearly CSV files are read from.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithLoader replaces the CSV loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithStore serves an already loaded dataset; Start skips loading.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRenderer sets the PNG renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithDefaultYear sets the year used when a request names none.
func WithDefaultYear(year int) Option {
	return func(s *Service) {
		if model.IsSupportedYear(year) {
			s.defaultYear = year
		}
	}
}

// WithDefaultCountries sets the evolution selection used when a request names none.
func WithDefaultCountries(countries []string) Option {
	return func(s *Service) {
		if len(countries) > 0 {
			s.defaultCountries = append([]string(nil), countries...)
		}
	}
}

// WithAverageScope sets which records the global average overlay uses.
func WithAverageScope(scope chart.AverageScope) Option {
	return func(s *Service) {
		if _, err := chart.ParseScope(string(scope)); err == nil {
			s.scope = scope
		}
	}
}

// WithMaxEvolutionCountries caps the evolution selection.
func WithMaxEvolutionCountries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCountries = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
