package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/happiness/pkg/logger"
)

// Run executes every check against cfg.BaseURL. A failing check does not stop
// the run; the report lists all of them and the error wraps ErrChecksFailed.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	normalize(cfg)
	report := &Report{StartTime: time.Now()}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting happiness probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("pairs", cfg.Pairs),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout, cfg.Verbose)
	for _, ch := range checks() {
		before := client.Requests()
		start := time.Now()
		detail, err := ch.run(ctx, client, cfg)
		res := Result{
			Name:     ch.name,
			Passed:   err == nil,
			Detail:   detail,
			Requests: client.Requests() - before,
			Duration: time.Since(start),
		}
		if err != nil {
			res.Detail = err.Error()
			log.Warn(ctx, "check failed", logger.String("check", ch.name), logger.Error(err))
		} else {
			log.Info(ctx, "check passed", logger.String("check", ch.name), logger.String("detail", detail))
		}
		report.Results = append(report.Results, res)

		// The remaining checks cannot reach an unhealthy server.
		if ch.name == "health" && err != nil {
			break
		}
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	displayFinalStats(ctx, report, client.Requests())

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%d of %d: %w", len(failed), len(report.Results), ErrChecksFailed)
	}
	return report, nil
}

func normalize(cfg *Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Pairs <= 0 {
		cfg.Pairs = DefaultPairs
	}
}

// displayFinalStats logs the summary of a run.
func displayFinalStats(ctx context.Context, r *Report, requests int) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("checks", len(r.Results)),
		logger.Int("failed", len(r.Failed())),
		logger.Int("requests", requests),
		logger.String("duration", r.Duration.String()),
	)
}
