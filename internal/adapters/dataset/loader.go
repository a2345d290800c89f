// Package dataset reads the pre-processed World Happiness Report CSV files.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
	"github.com/okian/happiness/pkg/metrics"
)

// Column headers every report file must carry besides the feature columns.
const (
	ColumnCountry = "Country"
	ColumnRank    = "Happiness Rank"
	ColumnScore   = "Happiness Score"

	defaultDataDir = "data"
	fileSuffix     = "_processed.csv"
)

// nanTokens are the cell values read as missing.
var nanTokens = []string{"", "NA", "N/A", "NaN", "nan", "null"} //nolint:gochecknoglobals // constant token set

// RequiredColumns lists the header names a report file must provide.
func RequiredColumns() []string {
	cols := []string{ColumnCountry, ColumnRank, ColumnScore}
	for _, f := range model.Features() {
		cols = append(cols, f.Column())
	}
	return cols
}

// Loader reads one CSV file per report year from a data directory.
type Loader struct {
	dir    string
	years  []int
	logger logger.Logger
}

// NewLoader constructs a Loader reading from ./data by default.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		dir:   defaultDataDir,
		years: model.Years(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the directory files are read from.
func (l *Loader) Dir() string { return l.dir }

// Path returns the file a year is read from.
func (l *Loader) Path(year int) string {
	return filepath.Join(l.dir, strconv.Itoa(year)+fileSuffix)
}

func (l *Loader) log() logger.Logger {
	if l.logger == nil {
		l.logger = logger.Named("dataset")
	}
	return l.logger
}

// Load reads the records of one report year. Every record is tagged with year.
// An unsupported year or a missing file yields ErrNotFound; a missing column or
// an unparsable cell yields ErrFormat. Extra columns are ignored.
func (l *Loader) Load(ctx context.Context, year int) ([]model.YearlyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := l.Path(year)
	if !model.IsSupportedYear(year) {
		return nil, &LoadError{Year: year, Path: path, Kind: ErrNotFound,
			Err: model.ErrUnsupportedYear}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Year: year, Path: path, Kind: ErrNotFound}
		}
		return nil, &LoadError{Year: year, Path: path, Kind: ErrNotFound, Err: err}
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanTokens),
	)
	if df.Err != nil {
		return nil, &LoadError{Year: year, Path: path, Kind: ErrFormat, Err: df.Err}
	}

	records, err := decode(df, year)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}

	l.log().Debug(ctx, "report year loaded",
		logger.Int("year", year),
		logger.Int("rows", len(records)),
		logger.String("path", path),
	)
	return records, nil
}

// LoadAll reads every configured year and concatenates the records in year
// order. Any failure aborts the whole load.
func (l *Loader) LoadAll(ctx context.Context) ([]model.YearlyRecord, error) {
	start := time.Now()
	var all []model.YearlyRecord
	for _, year := range l.years {
		records, err := l.Load(ctx, year)
		if err != nil {
			metrics.RecordErrorByComponent("dataset", kindLabel(err))
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		metrics.RecordDatasetRows(year, len(records))
		all = append(all, records...)
	}

	elapsed := time.Since(start)
	metrics.RecordDatasetLoadDuration(float64(elapsed.Microseconds()) / 1000)
	metrics.UpdateDatasetRecordsTotal(len(all))
	l.log().Info(ctx, "dataset loaded",
		logger.Int("years", len(l.years)),
		logger.Int("rows", len(all)),
		logger.String("dir", l.dir),
		logger.Duration("took", elapsed),
	)
	return all, nil
}

func kindLabel(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrFormat):
		return "format"
	default:
		return "other"
	}
}

// decode converts the string frame into typed records.
func decode(df dataframe.DataFrame, year int) ([]model.YearlyRecord, error) {
	present := make(map[string]string, df.Ncol())
	for _, name := range df.Names() {
		present[strings.TrimSpace(name)] = name
	}
	cols := make(map[string][]string, len(RequiredColumns()))
	for _, c := range RequiredColumns() {
		name, ok := present[c]
		if !ok {
			return nil, &LoadError{Year: year, Column: c, Kind: ErrFormat, Err: errors.New("missing column")}
		}
		cols[c] = df.Col(name).Records()
	}

	n := df.Nrow()
	records := make([]model.YearlyRecord, n)
	for i := 0; i < n; i++ {
		row := i + 1
		r := model.YearlyRecord{Year: year}

		r.Country = strings.TrimSpace(cols[ColumnCountry][i])
		if isMissing(r.Country) {
			return nil, &LoadError{Year: year, Column: ColumnCountry, Row: row, Kind: ErrFormat, Err: errors.New("empty country")}
		}

		rank, err := parseRank(cols[ColumnRank][i])
		if err != nil {
			return nil, &LoadError{Year: year, Column: ColumnRank, Row: row, Kind: ErrFormat, Err: err}
		}
		r.HappinessRank = rank

		if r.HappinessScore, err = parseFloat(cols[ColumnScore][i]); err != nil {
			return nil, &LoadError{Year: year, Column: ColumnScore, Row: row, Kind: ErrFormat, Err: err}
		}

		for _, f := range model.Features() {
			v, err := parseFloat(cols[f.Column()][i])
			if err != nil {
				return nil, &LoadError{Year: year, Column: f.Column(), Row: row, Kind: ErrFormat, Err: err}
			}
			setFeature(&r, f, v)
		}
		records[i] = r
	}
	return records, nil
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	for _, t := range nanTokens {
		if s == t {
			return true
		}
	}
	return false
}

// parseFloat reads a numeric cell; missing tokens become NaN.
func parseFloat(s string) (float64, error) {
	if isMissing(s) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseRank accepts "7" as well as "7.0". Ranks must be positive.
func parseRank(s string) (int, error) {
	if isMissing(s) {
		return 0, errors.New("missing rank")
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("rank %d is not positive", n)
		}
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || v <= 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("rank %q is not a positive integer", s)
	}
	return int(v), nil
}

func setFeature(r *model.YearlyRecord, f model.Feature, v float64) {
	switch f {
	case model.Economy:
		r.Economy = v
	case model.Family:
		r.Family = v
	case model.Health:
		r.Health = v
	case model.Freedom:
		r.Freedom = v
	case model.Trust:
		r.Trust = v
	case model.Generosity:
		r.Generosity = v
	}
}
