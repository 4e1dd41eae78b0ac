// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatsProvider exposes the service's operational counters.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the counter snapshot on GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler returns a handler backed by provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats answers GET /stats with the current counters as JSON.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
