package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/happiness/internal/adapters/export"
)

// ExportHandler serves the dataset workbook.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleDataset handles GET /export/dataset.xlsx requests.
func (h *ExportHandler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.ExportXLSX(r.Context(), &buf); err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="happiness_2015_2019.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
