package http

import (
	"log/slog"
	"net/http"
)

// handleInsights serves a full insight snapshot. Optional start/end
// query parameters bound the analysis window (inclusive).
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !window.Start.IsZero() && !window.End.IsZero() && window.End.Before(window.Start.Time) {
		writeError(w, http.StatusBadRequest, "end date before start date")
		return
	}

	key := windowKey(window)
	if snap, found := s.snapshotCache.Get(key); found {
		slog.DebugContext(r.Context(), "Snapshot cache hit", "window", key)
		writeJSON(w, http.StatusOK, snap)
		return
	}

	snap, err := s.service.Insights(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Insights computation failed",
			"error", err, "window", key)
		writeError(w, http.StatusInternalServerError, "failed to compute insights")
		return
	}

	s.snapshotCache.Set(key, snap)
	writeJSON(w, http.StatusOK, snap)
}
