package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	Directories *int   `json:"directories,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Target      string `json:"target,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	PublishingMode string                     `json:"publishing_mode"`
	Components     map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		// Get real data from memory index
		siteMap := d.MemoryIndex.Current()
		dirCount := len(siteMap.Directories)
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "built-in defaults"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		// Test Redis connection
		journalStatus := checkJournal(d)

		// Build components status
		components := map[string]componentStatus{
			"sitemap": {
				OK:          dirCount > 0,
				Directories: &dirCount,
				LastReload:  lastReloadStr,
			},
			"journal": journalStatus,
			"git_host": {
				OK:     d.GitRepo != "",
				Target: d.GitRepo,
				Mode:   "branch+pr to " + d.BaseBranch,
			},
		}

		response := infraResponse{
			PublishingMode: determinePublishingMode(components),
			Components:     components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determinePublishingMode(components map[string]componentStatus) string {
	// Without a git host target nothing can be published
	if git, exists := components["git_host"]; exists && !git.OK {
		return "critical"
	}

	// No directory mapping = nothing routes anywhere
	if sm, exists := components["sitemap"]; exists {
		if !sm.OK || (sm.Directories != nil && *sm.Directories == 0) {
			return "critical"
		}
	}

	// Journal down = publishing still works, history does not
	if journal, exists := components["journal"]; exists && !journal.OK {
		return "degraded"
	}

	return "operational"
}

func checkJournal(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "publish-history-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.RedisClient.Ping(ctx).Err()
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "publish-history-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "publish-history-enabled",
		Error:  "none",
	}
}
