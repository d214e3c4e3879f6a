package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/fuomag9/apitray/internal/monitor"
)

// Scheduler is the part of the check scheduler the API drives
type Scheduler interface {
	Reconfigure(intervalSeconds int)
	Interval() int
	Next() time.Time
}

// StatusResponse is the body of GET /api/status
type StatusResponse struct {
	Status          monitor.Status       `json:"status"`
	Indicator       monitor.Indicator    `json:"indicator"`
	Configured      bool                 `json:"configured"`
	Last            *monitor.ProbeResult `json:"last,omitempty"`
	Transition      monitor.Transition   `json:"transition,omitempty"`
	LastCheckedAt   *time.Time           `json:"last_checked_at,omitempty"`
	NextCheckAt     *time.Time           `json:"next_check_at,omitempty"`
	IntervalSeconds int                  `json:"interval_seconds"`
}

func buildStatusResponse(snap monitor.Snapshot, scheduler Scheduler) StatusResponse {
	resp := StatusResponse{
		Status:          snap.Status,
		Indicator:       snap.Indicator,
		Configured:      snap.Configured,
		IntervalSeconds: scheduler.Interval(),
	}

	if snap.Last != nil {
		result := snap.Last.Result
		checkedAt := snap.Last.CheckedAt
		resp.Last = &result
		resp.Transition = snap.Last.Transition
		resp.LastCheckedAt = &checkedAt
	}

	if next := scheduler.Next(); !next.IsZero() {
		resp.NextCheckAt = &next
	}

	return resp
}

// HandleGetStatus returns the current endpoint status without probing
func HandleGetStatus(executor *monitor.Executor, scheduler Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := buildStatusResponse(executor.Snapshot(), scheduler)
		if resp.IntervalSeconds == 0 {
			// scheduler not running; report the configured interval
			if settings, err := executor.Settings(); err == nil {
				resp.IntervalSeconds = settings.IntervalSeconds
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// HandleCheckNow runs the check pipeline immediately
func HandleCheckNow(executor *monitor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Manual check requested by %s", subjectFromContext(r.Context()))

		outcome, err := executor.RunCheck(r.Context(), "manual")
		if err != nil {
			log.Printf("Manual check failed: %v", err)
			http.Error(w, "Failed to run check", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(outcome)
	}
}
