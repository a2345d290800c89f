package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/happiness/internal/adapters/render"
)

// ImagesHandler serves PNG renderings of the charts.
type ImagesHandler struct {
	deps Dependencies
}

// NewImagesHandler creates a new images handler.
func NewImagesHandler(deps Dependencies) *ImagesHandler {
	return &ImagesHandler{deps: deps}
}

// HandleEvolution handles GET /charts/evolution.png requests.
func (h *ImagesHandler) HandleEvolution(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_evolution_png", func() (any, error) { return evolution(r, h.deps) })
}

// HandleFactors handles GET /charts/factors.png requests.
func (h *ImagesHandler) HandleFactors(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_factors_png", func() (any, error) { return h.deps.Factors(r.Context()) })
}

// HandleIncomeGroups handles GET /charts/income-groups.png?year=Y requests.
func (h *ImagesHandler) HandleIncomeGroups(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_income_groups_png", func() (any, error) {
		year, err := queryYear(r.URL.Query())
		if err != nil {
			return nil, err
		}
		return h.deps.IncomeGroups(r.Context(), year)
	})
}

// HandleCompare handles GET /charts/compare.png?a=A&b=B&year=Y requests.
func (h *ImagesHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_compare_png", func() (any, error) { return compare(r, h.deps) })
}

// HandleUnknown answers every other /charts/ path with the JSON not-found envelope.
func (h *ImagesHandler) HandleUnknown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeFailure(w, r, NewKind("api.get_chart_png "+r.URL.Path, ErrNotFound))
}

// serve renders into a buffer first so a failed rendering still gets a JSON
// error instead of a truncated image.
func (h *ImagesHandler) serve(w http.ResponseWriter, r *http.Request, op string, build func() (any, error)) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := build()
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	var buf bytes.Buffer
	if err := h.deps.RenderPNG(r.Context(), &buf, c); err != nil {
		writeFailure(w, r, WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", render.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
