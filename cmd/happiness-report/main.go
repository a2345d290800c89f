// Command happiness-report prints the dashboard aggregates as terminal tables
// and optionally writes the workbook and PNG charts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/happiness/internal/adapters/dataset"
	"github.com/okian/happiness/internal/adapters/export"
	"github.com/okian/happiness/internal/adapters/render"
	repository "github.com/okian/happiness/internal/adapters/repository"
	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
	"github.com/olekukonko/tablewriter"
)

type options struct {
	dataDir   string
	year      int
	xlsx      string
	chartsDir string
	countries []string
}

// defaultCountries is the evolution selection when -country is not given.
var defaultCountries = []string{"Finland", "Spain", "United States", "Brazil", "Japan"} //nolint:gochecknoglobals // constant default selection

// countryList collects a repeatable flag. Each value is one country name, so
// names containing a comma such as "Hong Kong S.A.R., China" stay whole.
type countryList []string

func (c *countryList) String() string { return strings.Join(*c, "; ") }

func (c *countryList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("empty country name")
	}
	*c = append(*c, v)
	return nil
}

// parseFlags reads the command line into options.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("happiness-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts      options
		countries countryList
	)
	fs.StringVar(&opts.dataDir, "data", "data", "Directory holding <year>_processed.csv files")
	fs.IntVar(&opts.year, "year", model.LastYear, "Report year for the per-year tables")
	fs.StringVar(&opts.xlsx, "xlsx", "", "Write the combined dataset workbook to this path")
	fs.StringVar(&opts.chartsDir, "charts", "", "Write PNG charts into this directory")
	fs.Var(&countries, "country", "Evolution country; repeat for several (default "+strings.Join(defaultCountries, ", ")+")")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.countries = countries
	if len(opts.countries) == 0 {
		opts.countries = append([]string(nil), defaultCountries...)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithLevel("warn")); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := report(context.Background(), os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, "happiness-report:", err)
		os.Exit(1)
	}
}

// report loads the dataset and writes every table to w.
func report(ctx context.Context, w io.Writer, opts options) error {
	if !model.IsSupportedYear(opts.year) {
		return fmt.Errorf("year %d: %w", opts.year, model.ErrUnsupportedYear)
	}
	records, err := dataset.NewLoader(dataset.WithDataDir(opts.dataDir)).LoadAll(ctx)
	if err != nil {
		return err
	}
	store := repository.NewMemoryStore(records)
	all := store.All()

	fmt.Fprintf(w, "%d records, %d countries, years %v\n\n", store.Count(), len(store.Countries()), store.Years())

	if err := extremesTable(w, store); err != nil {
		return err
	}
	countryTable(w, store, opts.countries)
	if err := factorsTable(w, all); err != nil {
		return err
	}
	rows, err := store.ByYear(opts.year)
	if err != nil {
		return err
	}
	if err := incomeTable(w, rows, opts.year); err != nil {
		return err
	}
	averageTable(w, all)

	if opts.xlsx != "" {
		if err := writeWorkbook(opts.xlsx, all); err != nil {
			return err
		}
		fmt.Fprintf(w, "workbook written to %s\n", opts.xlsx)
	}
	if opts.chartsDir != "" {
		if err := writeCharts(opts, all, rows); err != nil {
			return err
		}
		fmt.Fprintf(w, "charts written to %s\n", opts.chartsDir)
	}
	return nil
}

func newTable(w io.Writer, title string, header ...string) *tablewriter.Table {
	fmt.Fprintln(w, title)
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	return t
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func extremesTable(w io.Writer, store repository.Store) error {
	t := newTable(w, "Happiest and least happy", "Year", "Happiest", "Score", "Least happy", "Score")
	groups := store.GroupByYear()
	for _, year := range store.Years() {
		e, err := chart.BuildExtremes(groups[year], year)
		if err != nil {
			return err
		}
		t.Append([]string{
			strconv.Itoa(year),
			e.Happiest.Country, num(float64(e.Happiest.Score)),
			e.LeastHappy.Country, num(float64(e.LeastHappy.Score)),
		})
	}
	t.Render()
	fmt.Fprintln(w)
	return nil
}

// countryTable prints the score history of the selected countries.
func countryTable(w io.Writer, store repository.Store, countries []string) {
	years := store.Years()
	header := append([]string{"Country"}, make([]string, len(years))...)
	for i, y := range years {
		header[i+1] = strconv.Itoa(y)
	}
	t := newTable(w, "Score by country", header...)
	var unknown []string
	for _, name := range countries {
		rows := store.ByCountry(name)
		if len(rows) == 0 {
			unknown = append(unknown, name)
			continue
		}
		line := make([]string, len(header))
		line[0] = name
		for i := range years {
			line[i+1] = "-"
		}
		for _, r := range rows {
			for i, y := range years {
				if r.Year == y {
					line[i+1] = num(r.HappinessScore)
				}
			}
		}
		t.Append(line)
	}
	t.Render()
	if len(unknown) > 0 {
		fmt.Fprintf(w, "not in dataset: %s\n", strings.Join(unknown, "; "))
	}
	fmt.Fprintln(w)
}

func factorsTable(w io.Writer, all []model.YearlyRecord) error {
	f, err := chart.BuildFactors(all)
	if err != nil {
		return err
	}
	t := newTable(w, "Correlation with happiness score", "Factor", "r")
	for _, b := range f.Bars {
		v := "n/a"
		if b.Value.Valid() {
			v = num(float64(b.Value))
		}
		t.Append([]string{b.Label, v})
	}
	t.Render()
	fmt.Fprintln(w)

	t = newTable(w, "Factor means", "Factor", "Mean", "Std")
	for _, s := range f.Summary {
		t.Append([]string{s.Feature, num(float64(s.Mean)), num(float64(s.Std))})
	}
	t.Render()
	fmt.Fprintln(w)
	return nil
}

func incomeTable(w io.Writer, rows []model.YearlyRecord, year int) error {
	c, err := chart.BuildIncome(rows, year)
	if err != nil {
		return err
	}
	t := newTable(w, fmt.Sprintf("Income groups %d", year), "Group", "Economy range", "Countries", "Min", "Q1", "Median", "Q3", "Max")
	for _, b := range c.Boxes {
		t.Append([]string{
			b.Group,
			num(float64(b.Lower)) + " - " + num(float64(b.Upper)),
			strconv.Itoa(b.Count),
			num(float64(b.Min)), num(float64(b.Q1)), num(float64(b.Median)), num(float64(b.Q3)), num(float64(b.Max)),
		})
	}
	t.Render()
	if len(c.Unassigned) > 0 {
		fmt.Fprintf(w, "unassigned (no Economy value): %s\n", strings.Join(c.Unassigned, ", "))
	}
	fmt.Fprintln(w)
	return nil
}

func averageTable(w io.Writer, all []model.YearlyRecord) {
	t := newTable(w, "Global average score", "Year", "Mean", "Countries")
	for _, m := range analysis.GlobalAverage(all) {
		t.Append([]string{strconv.Itoa(m.Year), num(m.Mean), strconv.Itoa(m.Count)})
	}
	t.Render()
	fmt.Fprintln(w)
}

func writeWorkbook(path string, all []model.YearlyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := export.Write(f, all); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeCharts(opts options, all, rows []model.YearlyRecord) error {
	if err := os.MkdirAll(opts.chartsDir, 0o750); err != nil {
		return fmt.Errorf("create charts dir: %w", err)
	}
	r := render.New()

	evo, err := chart.BuildEvolution(all, chart.EvolutionRequest{Countries: opts.countries, Global: true})
	if err != nil {
		evo = chart.EvolutionChart{Meta: chart.Placeholder(chart.KindEvolution, err.Error())}
	}
	factors, err := chart.BuildFactors(all)
	if err != nil {
		return err
	}
	income, err := chart.BuildIncome(rows, opts.year)
	if err != nil {
		return err
	}

	outputs := []struct {
		name string
		draw func(io.Writer) error
	}{
		{"evolution.png", func(w io.Writer) error { return r.Evolution(w, evo) }},
		{"factors.png", func(w io.Writer) error { return r.Factors(w, factors) }},
		{fmt.Sprintf("income-groups-%d.png", opts.year), func(w io.Writer) error { return r.Income(w, income) }},
	}
	for _, o := range outputs {
		if err := writeFile(filepath.Join(opts.chartsDir, o.name), o.draw); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, draw func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := draw(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
