package mockgrid

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/gridbook/pkg/logger"
)

// Handler serves generated season results over HTTP, mimicking the
// upstream results provider consumed by the ingestion pipeline.
type Handler struct {
	gen *Generator
	log logger.Logger
}

// NewHandler creates an HTTP handler backed by gen.
func NewHandler(gen *Generator, log logger.Logger) *Handler {
	return &Handler{gen: gen, log: log}
}

// ServeHTTP handles GET /seasons/{season}/results requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, ok := parseSeasonPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	rows := h.gen.Season(season)
	if h.log != nil {
		h.log.Info(r.Context(), "serving mock season",
			logger.Int("season", season),
			logger.Int("rows", len(rows)),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(rows)
}

// parseSeasonPath extracts the season from /seasons/{season}/results.
func parseSeasonPath(path string) (int, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "seasons" || parts[2] != "results" {
		return 0, false
	}
	season, err := strconv.Atoi(parts[1])
	if err != nil || season < 1 {
		return 0, false
	}
	return season, true
}
