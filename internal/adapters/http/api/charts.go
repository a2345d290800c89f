package api

import (
	"context"
	"net/http"

	"github.com/okian/happiness/internal/domain/chart"
)

// ChartsHandler serves the chart-ready JSON structures.
type ChartsHandler struct {
	deps Dependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleOverview handles GET /api/overview requests.
func (h *ChartsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overview"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	o, err := h.deps.Overview(r.Context())
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// HandleCountries handles GET /api/countries requests.
func (h *ChartsHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_countries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	countries, err := h.deps.Countries(r.Context())
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	if countries == nil {
		countries = []string{}
	}
	writeJSON(w, http.StatusOK, countries)
}

// HandleMap handles GET /api/map?year=Y requests.
func (h *ChartsHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, "api.get_map", h.deps.Map)
}

// HandleExtremes handles GET /api/extremes?year=Y requests.
func (h *ChartsHandler) HandleExtremes(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, "api.get_extremes", h.deps.Extremes)
}

// HandleIncomeGroups handles GET /api/income-groups?year=Y requests.
func (h *ChartsHandler) HandleIncomeGroups(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, "api.get_income_groups", h.deps.IncomeGroups)
}

// HandleEvolution handles GET /api/evolution?country=A&country=B&global=true requests.
func (h *ChartsHandler) HandleEvolution(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_evolution"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := evolution(r, h.deps)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleFactors handles GET /api/factors requests.
func (h *ChartsHandler) HandleFactors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_factors"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := h.deps.Factors(r.Context())
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleCompare handles GET /api/compare?a=A&b=B&year=Y requests. Countries
// without data give 200 with has_data false.
func (h *ChartsHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_compare"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := compare(r, h.deps)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func serveYear[T any](w http.ResponseWriter, r *http.Request, op string, get func(context.Context, int) (T, error)) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	year, err := queryYear(r.URL.Query())
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	c, err := get(r.Context(), year)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func evolution(r *http.Request, deps Dependencies) (chart.EvolutionChart, error) {
	q := r.URL.Query()
	global, err := queryBool(q, "global", true)
	if err != nil {
		return chart.EvolutionChart{}, err
	}
	countries, present := queryCountries(q)
	if !present {
		countries = deps.DefaultCountries()
	}
	return deps.Evolution(r.Context(), chart.EvolutionRequest{Countries: countries, Global: global})
}

func compare(r *http.Request, deps Dependencies) (chart.CompareChart, error) {
	q := r.URL.Query()
	a, err := requiredParam(q, "a")
	if err != nil {
		return chart.CompareChart{}, err
	}
	b, err := requiredParam(q, "b")
	if err != nil {
		return chart.CompareChart{}, err
	}
	year, err := queryYear(q)
	if err != nil {
		return chart.CompareChart{}, err
	}
	return deps.Compare(r.Context(), a, b, year)
}
