package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"splitledger/internal/core"
	"splitledger/internal/insights"
)

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// First hop in the chain is the originating client.
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseWindow reads the optional start/end query parameters, both in
// YYYY-MM-DD form and inclusive.
func parseWindow(r *http.Request) (insights.Window, error) {
	var w insights.Window

	if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return insights.Window{}, err
		}
		w.Start = d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return insights.Window{}, err
		}
		w.End = d
	}

	return w, nil
}

// windowKey is the cache key for a window; the zero window keys as "all".
func windowKey(w insights.Window) string {
	if w.Start.IsZero() && w.End.IsZero() {
		return "all"
	}
	start, end := "", ""
	if !w.Start.IsZero() {
		start = w.Start.String()
	}
	if !w.End.IsZero() {
		end = w.End.String()
	}
	return start + ".." + end
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
