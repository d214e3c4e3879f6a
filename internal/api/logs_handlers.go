package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/eventlog"
)

const (
	defaultLogLines = 100
	maxLogLines     = 5000
)

// LogsResponse is the body of GET /api/logs
type LogsResponse struct {
	Path  string   `json:"path"`
	Lines []string `json:"lines"`
}

// HandleGetLogs returns the last ?lines=N event-log lines
func HandleGetLogs(logPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := defaultLogLines
		if raw := r.URL.Query().Get("lines"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "lines must be a positive integer", http.StatusBadRequest)
				return
			}
			n = min(parsed, maxLogLines)
		}

		lines, err := eventlog.Tail(logPath, n)
		if err != nil {
			log.Printf("Failed to read event log: %v", err)
			http.Error(w, "Failed to read log", http.StatusInternalServerError)
			return
		}
		if lines == nil {
			lines = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LogsResponse{Path: logPath, Lines: lines})
	}
}

// PathsResponse is the body of GET /api/paths
type PathsResponse struct {
	Config string `json:"config"`
	Log    string `json:"log"`
}

// HandleGetPaths returns the settings and event-log file locations
func HandleGetPaths(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PathsResponse{Config: cfg.SettingsPath, Log: cfg.LogPath})
	}
}
