// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/gridbook/internal/adapters/source"
	"github.com/okian/gridbook/internal/ingest"
)

// IngestDependencies defines the interface for ingest operations.
type IngestDependencies interface {
	IngestSeason(ctx context.Context, season int) (ingest.Report, error)
}

// IngestHandler handles ingest requests.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// HandlePostIngest handles POST /ingest?season=YYYY requests.
func (h *IngestHandler) HandlePostIngest(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_ingest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	seasonStr := r.URL.Query().Get("season")
	season, err := strconv.Atoi(seasonStr)
	if err != nil || season < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	report, err := h.deps.IngestSeason(r.Context(), season)
	if err != nil {
		if errors.Is(err, source.ErrFetch) {
			writeError(w, http.StatusBadGateway, "upstream_error", WrapKind(op, ErrUpstream, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
