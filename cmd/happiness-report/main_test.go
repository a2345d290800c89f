package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/happiness/internal/adapters/dataset"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, year := range model.Years() {
		body := strings.Join(dataset.RequiredColumns(), ",") + "\n" +
			"Finland,1,7.5,1.3,1.5,0.9,0.6,0.4,0.2\n" +
			"Spain,2,6.4,1.2,1.4,1.0,0.4,0.1,0.1\n" +
			"Brazil,3,6.3,1.0,1.4,0.8,0.5,0.1,0.2\n" +
			"Chad,4,4.3,NA,0.7,0.2,0.3,0.1,0.2\n" +
			"Togo,5,3.9,0.3,0.6,0.3,0.3,0.1,0.2\n"
		path := filepath.Join(dir, fmt.Sprintf("%d_processed.csv", year))
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return dir
}

func TestReport(t *testing.T) {
	convey.Convey("Given a data directory", t, func() {
		dir := writeData(t)
		out := t.TempDir()
		opts := options{
			dataDir:   dir,
			year:      2018,
			xlsx:      filepath.Join(out, "dataset.xlsx"),
			chartsDir: filepath.Join(out, "charts"),
			countries: []string{"Finland", "Togo", "Atlantis"},
		}

		convey.Convey("When the report runs", func() {
			var buf bytes.Buffer
			err := report(context.Background(), &buf, opts)
			convey.So(err, convey.ShouldBeNil)
			text := buf.String()

			convey.Convey("Then every table is printed", func() {
				convey.So(text, convey.ShouldContainSubstring, "25 records, 5 countries")
				convey.So(text, convey.ShouldContainSubstring, "Happiest and least happy")
				convey.So(text, convey.ShouldContainSubstring, "Correlation with happiness score")
				convey.So(text, convey.ShouldContainSubstring, "Income groups 2018")
				convey.So(text, convey.ShouldContainSubstring, "unassigned (no Economy value): Chad")
				convey.So(text, convey.ShouldContainSubstring, "Global average score")
			})

			convey.Convey("Then the selected countries get a score row each", func() {
				convey.So(text, convey.ShouldContainSubstring, "Score by country")
				convey.So(text, convey.ShouldContainSubstring, "7.500")
				convey.So(text, convey.ShouldContainSubstring, "3.900")
				convey.So(text, convey.ShouldContainSubstring, "not in dataset: Atlantis")
			})

			convey.Convey("And the workbook and charts are written", func() {
				for _, p := range []string{
					opts.xlsx,
					filepath.Join(opts.chartsDir, "evolution.png"),
					filepath.Join(opts.chartsDir, "factors.png"),
					filepath.Join(opts.chartsDir, "income-groups-2018.png"),
				} {
					info, err := os.Stat(p)
					convey.So(err, convey.ShouldBeNil)
					convey.So(info.Size(), convey.ShouldBeGreaterThan, 0)
				}
			})
		})
	})

	convey.Convey("Given an unsupported year", t, func() {
		err := report(context.Background(), io.Discard, options{dataDir: writeData(t), year: 2030})
		convey.So(errors.Is(err, model.ErrUnsupportedYear), convey.ShouldBeTrue)
	})

	convey.Convey("Given a missing data directory", t, func() {
		err := report(context.Background(), io.Discard, options{dataDir: filepath.Join(t.TempDir(), "none"), year: 2019})
		convey.So(errors.Is(err, dataset.ErrNotFound), convey.ShouldBeTrue)
	})
}

func TestParseFlags(t *testing.T) {
	convey.Convey("Given no country flag", t, func() {
		opts, err := parseFlags([]string{"-year", "2017"}, io.Discard)
		convey.So(err, convey.ShouldBeNil)
		convey.So(opts.year, convey.ShouldEqual, 2017)
		convey.So(opts.dataDir, convey.ShouldEqual, "data")
		convey.So(opts.countries, convey.ShouldResemble, defaultCountries)
	})

	convey.Convey("Given repeated country flags", t, func() {
		opts, err := parseFlags([]string{
			"-country", "Hong Kong S.A.R., China",
			"-country", " Finland ",
		}, io.Discard)

		convey.Convey("Then each value is one country, commas included", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(opts.countries, convey.ShouldResemble, []string{"Hong Kong S.A.R., China", "Finland"})
		})
	})

	convey.Convey("Given an empty country value", t, func() {
		_, err := parseFlags([]string{"-country", " "}, io.Discard)
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("Given an unknown flag", t, func() {
		_, err := parseFlags([]string{"-countries", "Finland,Spain"}, io.Discard)
		convey.So(err, convey.ShouldNotBeNil)
	})
}
