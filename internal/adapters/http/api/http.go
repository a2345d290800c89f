// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/internal/domain/model"
	"github.com/okian/happiness/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose chart-ready structures.
	Overview(ctx context.Context) (chart.Overview, error)
	Countries(ctx context.Context) ([]string, error)
	Map(ctx context.Context, year int) (chart.MapChart, error)
	Extremes(ctx context.Context, year int) (chart.Extremes, error)
	Evolution(ctx context.Context, req chart.EvolutionRequest) (chart.EvolutionChart, error)
	Factors(ctx context.Context) (chart.FactorsChart, error)
	IncomeGroups(ctx context.Context, year int) (chart.IncomeChart, error)
	Compare(ctx context.Context, a, b string, year int) (chart.CompareChart, error)

	// DefaultCountries is the evolution selection used when a request names none.
	DefaultCountries() []string

	// Output operations write binary renderings.
	RenderPNG(ctx context.Context, w io.Writer, c any) error
	ExportXLSX(ctx context.Context, w io.Writer) error
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	chartsHandler    *ChartsHandler
	imagesHandler    *ImagesHandler
	exportHandler    *ExportHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		chartsHandler:    NewChartsHandler(deps),
		imagesHandler:    NewImagesHandler(deps),
		exportHandler:    NewExportHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	// Specific paths first (most specific to least specific)
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	route("/stats", "stats", s.statsHandler.HandleStats)

	route("/api/overview", "overview", s.chartsHandler.HandleOverview)
	route("/api/countries", "countries", s.chartsHandler.HandleCountries)
	route("/api/map", "map", s.chartsHandler.HandleMap)
	route("/api/extremes", "extremes", s.chartsHandler.HandleExtremes)
	route("/api/evolution", "evolution", s.chartsHandler.HandleEvolution)
	route("/api/factors", "factors", s.chartsHandler.HandleFactors)
	route("/api/income-groups", "income_groups", s.chartsHandler.HandleIncomeGroups)
	route("/api/compare", "compare", s.chartsHandler.HandleCompare)

	route("/charts/evolution.png", "chart_evolution", s.imagesHandler.HandleEvolution)
	route("/charts/factors.png", "chart_factors", s.imagesHandler.HandleFactors)
	route("/charts/income-groups.png", "chart_income_groups", s.imagesHandler.HandleIncomeGroups)
	route("/charts/compare.png", "chart_compare", s.imagesHandler.HandleCompare)
	route("/charts/", "chart_unknown", s.imagesHandler.HandleUnknown)

	route("/export/dataset.xlsx", "export", s.exportHandler.HandleDataset)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error to its status and envelope.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// classify translates error kinds into HTTP status and envelope code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, chart.ErrTooManyCountries):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound), errors.Is(err, model.ErrUnsupportedYear):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
