package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// parseAsOf reads ?date=YYYY-MM-DD, defaulting to today (UTC)
func parseAsOf(r *http.Request) (time.Time, error) {
	if s := r.URL.Query().Get("date"); s != "" {
		return time.Parse(dateLayout, s)
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseLimit reads ?limit=, clamped to [1, max]
func parseLimit(r *http.Request, def, max int) int {
	limit := def
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}
