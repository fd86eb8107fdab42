package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/scribe/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scribe/internal/logger"
	redisstore "github.com/MrSnakeDoc/scribe/internal/store/redis"
)

type recentResponse struct {
	Entries []*redisstore.Entry `json:"entries"`
}

// Recent lists recent publish attempts from the journal, newest first.
func Recent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if d.Journal == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "publish journal disabled",
			})
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		entries, err := d.Journal.Recent(r.Context(), limit)
		if err != nil {
			d.Logger.Error("failed to list recent publishes",
				logger.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "journal unavailable",
			})
			return
		}

		if entries == nil {
			entries = []*redisstore.Entry{}
		}
		_ = json.NewEncoder(w).Encode(recentResponse{Entries: entries})
	}
}
