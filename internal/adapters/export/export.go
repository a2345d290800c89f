// Package export writes the combined dataset as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/country"
	"github.com/okian/happiness/internal/domain/model"
)

// Sheet names of the workbook.
const (
	SheetDataset      = "Dataset"
	SheetAverages     = "Global Average"
	SheetCorrelations = "Correlations"

	// ContentType is the media type of the workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DatasetHeader is the first row of the dataset sheet.
func DatasetHeader() []string {
	h := []string{"Year", "Country", "Map Name", "Happiness Rank", "Happiness Score"}
	for _, f := range model.Features() {
		h = append(h, f.Column())
	}
	return h
}

// Write renders records into a workbook with the dataset, the per-year global
// average and the feature correlations. Missing values are left blank.
func Write(w io.Writer, records []model.YearlyRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetDataset); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeDataset(f, records); err != nil {
		return fmt.Errorf("export dataset: %w", err)
	}
	if err := writeAverages(f, analysis.GlobalAverage(records)); err != nil {
		return fmt.Errorf("export averages: %w", err)
	}
	corr, err := analysis.FeatureCorrelations(records)
	if err != nil {
		corr = nil
	}
	if err := writeCorrelations(f, corr); err != nil {
		return fmt.Errorf("export correlations: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// cell keeps NaN out of the workbook.
func cell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func header(f *excelize.File, sheet string, cols []string, width float64) error {
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, width)
}

func writeDataset(f *excelize.File, records []model.YearlyRecord) error {
	if err := header(f, SheetDataset, DatasetHeader(), 18); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{r.Year, r.Country, country.Canonical(r.Country), r.HappinessRank, cell(r.HappinessScore)}
		for _, feat := range model.Features() {
			row = append(row, cell(r.Value(feat)))
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetDataset, addr, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(SheetDataset, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeAverages(f *excelize.File, means []analysis.YearMean) error {
	if _, err := f.NewSheet(SheetAverages); err != nil {
		return err
	}
	if err := header(f, SheetAverages, []string{"Year", "Mean Happiness Score", "Countries"}, 22); err != nil {
		return err
	}
	for i, m := range means {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Year, cell(m.Mean), m.Count}
		if err := f.SetSheetRow(SheetAverages, addr, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCorrelations(f *excelize.File, corr []analysis.Correlation) error {
	if _, err := f.NewSheet(SheetCorrelations); err != nil {
		return err
	}
	if err := header(f, SheetCorrelations, []string{"Feature", "Correlation with Happiness Score"}, 30); err != nil {
		return err
	}
	for i, c := range corr {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{string(c.Feature), cell(c.Coefficient)}
		if err := f.SetSheetRow(SheetCorrelations, addr, &row); err != nil {
			return err
		}
	}
	return nil
}
