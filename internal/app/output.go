package service

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/happiness/internal/adapters/export"
	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/pkg/logger"
	"github.com/okian/happiness/pkg/metrics"
)

// RenderPNG draws a chart built by this service. Placeholder charts and
// comparisons without data are drawn as an empty frame with their message.
func (s *Service) RenderPNG(ctx context.Context, w io.Writer, c any) error {
	if _, err := s.current(); err != nil {
		return err
	}
	r := s.renderer

	var err error
	switch v := c.(type) {
	case chart.EvolutionChart:
		err = r.Evolution(w, v)
	case chart.FactorsChart:
		err = r.Factors(w, v)
	case chart.IncomeChart:
		err = r.Income(w, v)
	case chart.CompareChart:
		if !v.HasData {
			err = r.Placeholder(w, chart.Placeholder(chart.KindCompare, v.Message))
			break
		}
		err = r.Compare(w, v)
	default:
		return fmt.Errorf("render %T: %w", c, ErrUnknownChart)
	}
	if err != nil {
		s.logger.Error(ctx, "render failed", logger.String("type", fmt.Sprintf("%T", c)), logger.Error(err))
		return err
	}
	return nil
}

// ExportXLSX writes the combined dataset as a workbook.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	store, err := s.current()
	if err != nil {
		return err
	}
	if err := export.Write(w, store.All()); err != nil {
		s.logger.Error(ctx, "export failed", logger.Error(err))
		return err
	}
	metrics.RecordExport("xlsx")
	s.logger.Debug(ctx, "dataset exported", logger.Int("records", store.Count()))
	return nil
}
