package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/happiness/internal/adapters/dataset"
	"github.com/okian/happiness/internal/adapters/render"
	repository "github.com/okian/happiness/internal/adapters/repository"
	service "github.com/okian/happiness/internal/app"
	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

var fixtureCountries = []string{"Finland", "Denmark", "Chile", "Togo", "United States"}

// writeFixture writes one CSV per supported year. Scores fall with the row
// index and rise by 0.01 per year, so rank 1 is always Finland.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, year := range model.Years() {
		var b strings.Builder
		b.WriteString(strings.Join(dataset.RequiredColumns(), ",") + "\n")
		for i, c := range fixtureCountries {
			score := 7.5 - float64(i) + float64(year-model.FirstYear)*0.01
			econ := 1.5 - 0.3*float64(i)
			fmt.Fprintf(&b, "%s,%d,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f\n",
				c, i+1, score, econ, 1.2-0.1*float64(i), 0.9-0.15*float64(i),
				0.5+0.02*float64(i%2), 0.3-0.05*float64(i), 0.2)
		}
		path := filepath.Join(dir, fmt.Sprintf("%d_processed.csv", year))
		if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return dir
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	opts = append([]service.Option{
		service.WithDataDir(writeFixture(t)),
		service.WithRenderer(render.New(render.WithSizePx(400, 300))),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.DefaultYear(), ShouldEqual, 2019)
			So(svc.DefaultCountries(), ShouldResemble, []string{"Finland", "Spain", "United States", "Brazil", "Japan"})
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithDefaultYear(2016),
			service.WithDefaultCountries([]string{"Chile"}),
			service.WithAverageScope(chart.ScopeSelected),
			service.WithDefaultYear(2030),
		)

		Convey("Then valid options apply and invalid ones are ignored", func() {
			So(svc.DefaultYear(), ShouldEqual, 2016)
			So(svc.DefaultCountries(), ShouldResemble, []string{"Chile"})
			So(svc.GetStats()["averageScope"], ShouldEqual, "selected")
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a data directory holding every year", t, func() {
		svc := startedService(t)
		defer svc.Stop()

		Convey("Then the combined dataset is loaded", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["records"], ShouldEqual, 25)
			So(stats["countries"], ShouldEqual, 5)
			So(stats["years"], ShouldResemble, model.Years())
		})

		Convey("And starting twice is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a directory missing a year", t, func() {
		dir := writeFixture(t)
		So(os.Remove(filepath.Join(dir, "2017_processed.csv")), ShouldBeNil)
		svc := service.New(service.WithDataDir(dir))

		Convey("Then start fails and nothing is served", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, dataset.ErrNotFound), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)

			_, err = svc.Countries(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then queries fail until it starts again", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				_, err := svc.Factors(context.Background())
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

				So(svc.Start(context.Background()), ShouldBeNil)
				_, err = svc.Factors(context.Background())
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestService_YearQueries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the year is zero the default year is used", func() {
			m, err := svc.Map(ctx, 0)
			So(err, ShouldBeNil)
			So(m.Year, ShouldEqual, 2019)
			So(m.Placeholder, ShouldBeFalse)
			So(len(m.Points), ShouldEqual, 5)
			So(m.Stats.Happiest.Country, ShouldEqual, "Finland")
		})

		Convey("When the year is unsupported", func() {
			_, err := svc.Map(ctx, 2014)
			So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
			_, err = svc.Extremes(ctx, 2020)
			So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
			_, err = svc.IncomeGroups(ctx, 1999)
			So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
			_, err = svc.Compare(ctx, "Chile", "Togo", 2021)
			So(errors.Is(err, model.ErrUnsupportedYear), ShouldBeTrue)
		})

		Convey("Then extremes follow the rank field", func() {
			e, err := svc.Extremes(ctx, 2015)
			So(err, ShouldBeNil)
			So(e.Happiest.Country, ShouldEqual, "Finland")
			So(e.Happiest.Rank, ShouldEqual, 1)
			So(e.LeastHappy.Country, ShouldEqual, "United States")
		})

		Convey("Then income groups carry four boxes", func() {
			c, err := svc.IncomeGroups(ctx, 2018)
			So(err, ShouldBeNil)
			So(c.Placeholder, ShouldBeFalse)
			So(len(c.Boxes), ShouldEqual, 4)
			So(len(c.Edges), ShouldEqual, 5)
		})

		Convey("Then a comparison of known countries has data", func() {
			c, err := svc.Compare(ctx, "Finland", "Togo", 2019)
			So(err, ShouldBeNil)
			So(c.HasData, ShouldBeTrue)
			So(len(c.Factors), ShouldEqual, 12)
			So(*c.Winner, ShouldEqual, "Finland")
			So(float64(c.ScoreDiff), ShouldAlmostEqual, 3.0, 1e-9)
		})

		Convey("Then a comparison with an unknown country has no data and no error", func() {
			c, err := svc.Compare(ctx, "Finland", "Atlantis", 2019)
			So(err, ShouldBeNil)
			So(c.HasData, ShouldBeFalse)
			So(c.Message, ShouldNotBeEmpty)
		})
	})
}

func TestService_Placeholders(t *testing.T) {
	Convey("Given a service over a dataset without 2016 rows", t, func() {
		var records []model.YearlyRecord
		for _, y := range []int{2015, 2017} {
			records = append(records,
				model.YearlyRecord{Country: "Finland", HappinessRank: 1, HappinessScore: 7.5, Economy: 1.3, Year: y},
				model.YearlyRecord{Country: "Togo", HappinessRank: 2, HappinessScore: 3.1, Economy: 0.2, Year: y},
			)
		}
		svc := service.New(service.WithStore(repository.NewMemoryStore(records)))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then charts of the empty year are placeholders, not errors", func() {
			m, err := svc.Map(ctx, 2016)
			So(err, ShouldBeNil)
			So(m.Placeholder, ShouldBeTrue)
			So(m.Kind, ShouldEqual, chart.KindMap)
			So(m.Year, ShouldEqual, 2016)

			e, err := svc.Extremes(ctx, 2016)
			So(err, ShouldBeNil)
			So(e.Placeholder, ShouldBeTrue)

			ic, err := svc.IncomeGroups(ctx, 2016)
			So(err, ShouldBeNil)
			So(ic.Placeholder, ShouldBeTrue)
			So(ic.Message, ShouldEqual, "No data for this year")
			So(m.Message, ShouldEqual, "No data for this year")
			So(e.Message, ShouldEqual, "No data for this year")
		})

		Convey("Then an empty evolution selection is a placeholder with a message", func() {
			c, err := svc.Evolution(ctx, chart.EvolutionRequest{})
			So(err, ShouldBeNil)
			So(c.Placeholder, ShouldBeTrue)
			So(c.Message, ShouldContainSubstring, "Select at least one country")
		})
	})
}

func TestService_Evolution(t *testing.T) {
	Convey("Given a started service limited to three countries", t, func() {
		svc := startedService(t, service.WithMaxEvolutionCountries(3))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the selection exceeds the limit", func() {
			_, err := svc.Evolution(ctx, chart.EvolutionRequest{Countries: fixtureCountries})
			So(errors.Is(err, chart.ErrTooManyCountries), ShouldBeTrue)
		})

		Convey("When the global overlay is requested", func() {
			c, err := svc.Evolution(ctx, chart.EvolutionRequest{Countries: []string{"Finland", "Chile"}, Global: true})
			So(err, ShouldBeNil)

			Convey("Then every country has one point per year", func() {
				So(len(c.Series), ShouldEqual, 2)
				So(len(c.Series[0].Points), ShouldEqual, 5)
				So(len(c.Stats), ShouldEqual, 2)
				So(c.Stats[0].Delta, ShouldNotBeNil)
				So(c.Unknown, ShouldBeEmpty)
			})

			Convey("And the overlay covers all years with the configured scope", func() {
				So(c.Overlay, ShouldNotBeNil)
				So(len(c.Overlay.Points), ShouldEqual, 5)
				So(c.Scope, ShouldEqual, chart.ScopeAll)
				// Mean of 7.5, 6.5, 5.5, 4.5, 3.5.
				So(float64(c.Overlay.Points[0].Y), ShouldAlmostEqual, 5.5, 1e-9)
			})
		})

		Convey("When a requested country is not in the dataset", func() {
			c, err := svc.Evolution(ctx, chart.EvolutionRequest{Countries: []string{"Finland", "Atlantis", "Hong Kong S.A.R., China"}})
			So(err, ShouldBeNil)
			So(c.Placeholder, ShouldBeFalse)
			So(len(c.Series), ShouldEqual, 3)
			So(c.Unknown, ShouldResemble, []string{"Atlantis", "Hong Kong S.A.R., China"})
		})

		Convey("When the scope is overridden to the selection", func() {
			c, err := svc.Evolution(ctx, chart.EvolutionRequest{
				Countries: []string{"Finland", "Chile"}, Global: true, Scope: chart.ScopeSelected,
			})
			So(err, ShouldBeNil)
			So(c.Scope, ShouldEqual, chart.ScopeSelected)
			So(float64(c.Overlay.Points[0].Y), ShouldAlmostEqual, 6.5, 1e-9)
		})
	})
}

func TestService_OverviewAndFactors(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t, service.WithDefaultCountries([]string{"Chile", "Togo"}))
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then the overview summarizes the dataset and defaults", func() {
			o, err := svc.Overview(ctx)
			So(err, ShouldBeNil)
			So(o.Countries, ShouldEqual, 5)
			So(o.Records, ShouldEqual, 25)
			So(o.LatestYear, ShouldEqual, 2019)
			So(o.Happiest.Country, ShouldEqual, "Finland")
			So(o.DefaultYear, ShouldEqual, 2019)
			So(o.DefaultCountries, ShouldResemble, []string{"Chile", "Togo"})
		})

		Convey("Then factors are sorted ascending", func() {
			f, err := svc.Factors(ctx)
			So(err, ShouldBeNil)
			So(len(f.Bars), ShouldEqual, 6)
			for i := 1; i < len(f.Bars); i++ {
				if f.Bars[i].Value.Valid() && f.Bars[i-1].Value.Valid() {
					So(float64(f.Bars[i-1].Value), ShouldBeLessThanOrEqualTo, float64(f.Bars[i].Value))
				}
			}
		})

		Convey("Then countries are sorted", func() {
			cs, err := svc.Countries(ctx)
			So(err, ShouldBeNil)
			So(cs, ShouldResemble, []string{"Chile", "Denmark", "Finland", "Togo", "United States"})
		})
	})
}

func TestService_Output(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When rendering every PNG chart", func() {
			evo, _ := svc.Evolution(ctx, chart.EvolutionRequest{Countries: []string{"Finland"}, Global: true})
			fac, _ := svc.Factors(ctx)
			inc, _ := svc.IncomeGroups(ctx, 2019)
			cmp, _ := svc.Compare(ctx, "Finland", "Chile", 2019)
			none, _ := svc.Compare(ctx, "Finland", "Atlantis", 2019)

			Convey("Then each one decodes as a PNG", func() {
				for _, c := range []any{evo, fac, inc, cmp, none} {
					var buf bytes.Buffer
					So(svc.RenderPNG(ctx, &buf, c), ShouldBeNil)
					img, err := png.Decode(&buf)
					So(err, ShouldBeNil)
					So(img.Bounds().Dx(), ShouldEqual, 400)
				}
			})
		})

		Convey("When rendering a chart without a PNG form", func() {
			m, _ := svc.Map(ctx, 2019)
			err := svc.RenderPNG(ctx, io.Discard, m)
			So(errors.Is(err, service.ErrUnknownChart), ShouldBeTrue)
		})

		Convey("When exporting the dataset", func() {
			var buf bytes.Buffer
			So(svc.ExportXLSX(ctx, &buf), ShouldBeNil)

			Convey("Then the dataset sheet holds a header and every record", func() {
				f, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()
				rows, err := f.GetRows("Dataset")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 26)
			})
		})
	})
}
