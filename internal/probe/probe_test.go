package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/okian/happiness/internal/adapters/http/api"
	repository "github.com/okian/happiness/internal/adapters/repository"
	service "github.com/okian/happiness/internal/app"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
	color.NoColor = true
}

func dashboardServer(t *testing.T) *httptest.Server {
	t.Helper()
	var records []model.YearlyRecord
	names := []string{"Finland", "Norway", "Chile", "Peru", "Togo"}
	for _, year := range model.Years() {
		for i, c := range names {
			fi := float64(i)
			records = append(records, model.YearlyRecord{
				Country: c, HappinessRank: i + 1, HappinessScore: 7.6 - 0.9*fi - 0.01*float64(year-model.FirstYear),
				Economy: 1.4 - 0.25*fi, Family: 1.3 - 0.1*fi, Health: 0.9 - 0.12*fi,
				Freedom: 0.6 - 0.04*fi, Trust: 0.35 - 0.06*fi, Generosity: 0.1 + 0.03*fi, Year: year,
			})
		}
	}
	svc := service.New(service.WithStore(repository.NewMemoryStore(records)))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a healthy server", t, func() {
		srv := dashboardServer(t)
		defer srv.Close()

		Convey("When probing it", func() {
			report, err := Run(context.Background(), &Config{BaseURL: srv.URL, Timeout: 5 * time.Second})

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(len(report.Results), ShouldEqual, len(checks()))
				So(report.Failed(), ShouldBeEmpty)
				for _, r := range report.Results {
					So(r.Requests, ShouldBeGreaterThan, 0)
				}
			})

			Convey("And the report prints as a table", func() {
				var buf bytes.Buffer
				PrintReport(&buf, report)
				So(buf.String(), ShouldContainSubstring, "PASS")
				So(buf.String(), ShouldContainSubstring, "comparison antisymmetry")
				So(buf.String(), ShouldContainSubstring, fmt.Sprintf("%d/%d checks passed", len(checks()), len(checks())))
			})
		})
	})

	Convey("Given a server that is not running", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then only the health check runs and fails", func() {
			report, err := Run(context.Background(), &Config{BaseURL: srv.URL, Timeout: time.Second})
			So(errors.Is(err, ErrChecksFailed), ShouldBeTrue)
			So(len(report.Results), ShouldEqual, 1)
			So(report.Results[0].Passed, ShouldBeFalse)
		})
	})

	Convey("Given a server whose correlations are out of order", t, func() {
		upstream := dashboardServer(t)
		defer upstream.Close()
		mux := http.NewServeMux()
		mux.HandleFunc("/api/factors", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bars":[{"label":"A","value":0.9},{"label":"B","value":0.1},` +
				`{"label":"C","value":null},{"label":"D","value":0.2},{"label":"E","value":0.3},{"label":"F","value":0.4}]}`))
		})
		mux.Handle("/", upstream.Config.Handler)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Then exactly that check fails", func() {
			report, err := Run(context.Background(), &Config{BaseURL: srv.URL})
			So(errors.Is(err, ErrChecksFailed), ShouldBeTrue)
			failed := report.Failed()
			So(len(failed), ShouldEqual, 1)
			So(failed[0].Name, ShouldEqual, "correlations ascending in [-1,1]")
			So(failed[0].Detail, ShouldContainSubstring, "ascending")
		})
	})
}

func TestForEach(t *testing.T) {
	Convey("Given a list of items", t, func() {
		items := []int{1, 2, 3, 4, 5, 6, 7, 8}

		Convey("When every item succeeds", func() {
			var seen atomic.Int64
			err := forEach(context.Background(), 3, items, func(_ context.Context, n int) error {
				seen.Add(int64(n))
				return nil
			})

			Convey("Then each is visited once", func() {
				So(err, ShouldBeNil)
				So(seen.Load(), ShouldEqual, 36)
			})
		})

		Convey("When some items fail", func() {
			err := forEach(context.Background(), 0, items, func(_ context.Context, n int) error {
				if n%4 == 0 {
					return fmt.Errorf("item %d", n)
				}
				return nil
			})

			Convey("Then all failures are joined", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "item 4")
				So(err.Error(), ShouldContainSubstring, "item 8")
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := forEach(ctx, 2, items, func(context.Context, int) error { return nil })
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
