package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/okian/happiness/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// check runs one invariant and returns a short detail on success.
type check struct {
	name string
	run  func(ctx context.Context, c *HTTPClient, cfg *Config) (string, error)
}

func checks() []check {
	return []check{
		{name: "health", run: checkHealth},
		{name: "happiest has rank 1", run: checkExtremes},
		{name: "correlations ascending in [-1,1]", run: checkFactors},
		{name: "comparison antisymmetry", run: checkCompare},
		{name: "global average covers all years", run: checkGlobalAverage},
		{name: "unsupported year is 404", run: checkUnsupportedYear},
		{name: "chart images are png", run: checkImages},
	}
}

// forEach runs fn over items with at most workers in flight and joins the
// errors. A failing item does not stop the others.
func forEach[T any](ctx context.Context, workers int, items []T, fn func(context.Context, T) error) error {
	if workers < 1 {
		workers = 1
	}
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(workers)
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := fn(ctx, item); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func checkHealth(ctx context.Context, c *HTTPClient, _ *Config) (string, error) {
	resp, err := c.get(ctx, "/healthz", nil)
	if err != nil {
		return "", fmt.Errorf("failed to connect to service: %w", err)
	}
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("health check failed with status: %d", resp.status)
	}
	return fmt.Sprintf("%d bytes of metrics", len(resp.body)), nil
}

func checkExtremes(ctx context.Context, c *HTTPClient, cfg *Config) (string, error) {
	err := forEach(ctx, cfg.Workers, model.Years(), func(ctx context.Context, year int) error {
		var e extremes
		if err := c.getJSON(ctx, "/api/extremes", url.Values{"year": {strconv.Itoa(year)}}, &e); err != nil {
			return err
		}
		if e.Placeholder {
			return fmt.Errorf("%d: extremes missing", year)
		}
		if e.Happiest.Rank != 1 {
			return fmt.Errorf("%d: happiest %s has rank %d", year, e.Happiest.Country, e.Happiest.Rank)
		}
		if e.Happiest.Score != nil && e.LeastHappy.Score != nil && *e.Happiest.Score < *e.LeastHappy.Score {
			return fmt.Errorf("%d: happiest scores below least happy", year)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d years", len(model.Years())), nil
}

func checkFactors(ctx context.Context, c *HTTPClient, _ *Config) (string, error) {
	var f factors
	if err := c.getJSON(ctx, "/api/factors", nil, &f); err != nil {
		return "", err
	}
	if f.Placeholder {
		return "", errors.New("factors chart is a placeholder")
	}
	if len(f.Bars) != len(model.Features()) {
		return "", fmt.Errorf("%d bars, want %d", len(f.Bars), len(model.Features()))
	}
	prev := math.Inf(-1)
	undefined := 0
	for _, b := range f.Bars {
		if b.Value == nil {
			undefined++
			continue
		}
		v := *b.Value
		if v < -1-epsilon || v > 1+epsilon {
			return "", fmt.Errorf("%s: r=%.4f outside [-1,1]", b.Label, v)
		}
		if v < prev {
			return "", fmt.Errorf("%s: r=%.4f breaks ascending order", b.Label, v)
		}
		prev = v
	}
	return fmt.Sprintf("%d bars, %d undefined", len(f.Bars), undefined), nil
}

type pair struct{ a, b string }

func checkCompare(ctx context.Context, c *HTTPClient, cfg *Config) (string, error) {
	var countries []string
	if err := c.getJSON(ctx, "/api/countries", nil, &countries); err != nil {
		return "", err
	}
	pairs := make([]pair, 0, cfg.Pairs)
	for i := 0; i+1 < len(countries) && len(pairs) < cfg.Pairs; i += 2 {
		pairs = append(pairs, pair{countries[i], countries[i+1]})
	}
	if len(pairs) == 0 {
		return "", errors.New("fewer than two countries")
	}

	err := forEach(ctx, cfg.Workers, pairs, func(ctx context.Context, p pair) error {
		var ab, ba comparison
		if err := c.getJSON(ctx, "/api/compare", url.Values{"a": {p.a}, "b": {p.b}}, &ab); err != nil {
			return err
		}
		if err := c.getJSON(ctx, "/api/compare", url.Values{"a": {p.b}, "b": {p.a}}, &ba); err != nil {
			return err
		}
		if ab.HasData != ba.HasData {
			return fmt.Errorf("%s/%s: has_data differs by order", p.a, p.b)
		}
		if !ab.HasData {
			return nil
		}
		if ab.ScoreDiff == nil || ba.ScoreDiff == nil {
			return fmt.Errorf("%s/%s: missing score_diff", p.a, p.b)
		}
		if math.Abs(*ab.ScoreDiff+*ba.ScoreDiff) > epsilon {
			return fmt.Errorf("%s/%s: diff %.6f is not the negation of %.6f", p.a, p.b, *ab.ScoreDiff, *ba.ScoreDiff)
		}
		if (ab.Winner == nil) != (ba.Winner == nil) || (ab.Winner != nil && *ab.Winner != *ba.Winner) {
			return fmt.Errorf("%s/%s: winner depends on order", p.a, p.b)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d pairs", len(pairs)), nil
}

func checkGlobalAverage(ctx context.Context, c *HTTPClient, _ *Config) (string, error) {
	var e evolution
	if err := c.getJSON(ctx, "/api/evolution", url.Values{"global": {"true"}}, &e); err != nil {
		return "", err
	}
	if e.Overlay == nil {
		return "", errors.New("no global average overlay")
	}
	years := model.Years()
	if len(e.Overlay.Points) != len(years) {
		return "", fmt.Errorf("overlay has %d points, want %d", len(e.Overlay.Points), len(years))
	}
	for i, p := range e.Overlay.Points {
		if p.X != years[i] {
			return "", fmt.Errorf("overlay point %d is year %d, want %d", i, p.X, years[i])
		}
		if p.Y == nil {
			return "", fmt.Errorf("overlay year %d has no mean", p.X)
		}
	}
	return fmt.Sprintf("%d years", len(years)), nil
}

func checkUnsupportedYear(ctx context.Context, c *HTTPClient, _ *Config) (string, error) {
	resp, err := c.get(ctx, "/api/map", url.Values{"year": {strconv.Itoa(model.FirstYear - 1)}})
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusNotFound {
		return "", fmt.Errorf("status %d, want 404", resp.status)
	}
	return "not_found", nil
}

func checkImages(ctx context.Context, c *HTTPClient, cfg *Config) (string, error) {
	paths := []string{"/charts/evolution.png", "/charts/factors.png", "/charts/income-groups.png"}
	err := forEach(ctx, cfg.Workers, paths, func(ctx context.Context, path string) error {
		resp, err := c.get(ctx, path, nil)
		if err != nil {
			return err
		}
		if resp.status != http.StatusOK || !strings.HasPrefix(resp.contentType, "image/png") {
			return fmt.Errorf("%s: status %d content type %q", path, resp.status, resp.contentType)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d images", len(paths)), nil
}
