package dataset

import "github.com/okian/happiness/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDataDir sets the directory holding <year>_processed.csv files.
func WithDataDir(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.dir = dir
		}
	}
}

// WithYears restricts LoadAll to a subset of the supported years.
// Unsupported years are kept so that Load reports them as not found.
func WithYears(years ...int) Option {
	return func(l *Loader) {
		if len(years) > 0 {
			l.years = append([]int(nil), years...)
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
