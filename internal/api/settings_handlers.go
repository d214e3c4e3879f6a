package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/monitor"
)

// SettingsResponse is the settings view returned to clients. The key is
// never echoed back in full.
type SettingsResponse struct {
	APIURL          string            `json:"api_url"`
	APIKey          string            `json:"api_key"`
	HasKey          bool              `json:"has_key"`
	IntervalSeconds int               `json:"interval_seconds"`
	NotifyMode      config.NotifyMode `json:"notify_mode"`
}

func newSettingsResponse(s config.Settings) SettingsResponse {
	return SettingsResponse{
		APIURL:          s.APIURL,
		APIKey:          s.MaskedKey(),
		HasKey:          s.APIKey != "",
		IntervalSeconds: s.IntervalSeconds,
		NotifyMode:      s.NotifyMode,
	}
}

// HandleGetSettings returns the current settings
func HandleGetSettings(store *config.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := store.Load()
		if err != nil {
			log.Printf("Failed to load settings: %v", err)
			http.Error(w, "Failed to load settings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newSettingsResponse(settings.Normalize()))
	}
}

// UpdateSettingsRequest is a partial update; absent fields are unchanged
type UpdateSettingsRequest struct {
	APIURL          *string `json:"api_url"`
	APIKey          *string `json:"api_key"`
	IntervalSeconds *int    `json:"interval_seconds"`
	NotifyMode      *string `json:"notify_mode"`
}

var errInvalidSettings = errors.New("invalid settings")

// Apply validates the request and writes its fields into s
func (req UpdateSettingsRequest) Apply(s *config.Settings, guard *monitor.URLGuard) error {
	if req.APIURL != nil {
		url := strings.TrimSpace(*req.APIURL)
		if err := guard.ValidateURL(url); err != nil {
			return fmt.Errorf("%w: %v", errInvalidSettings, err)
		}
		s.APIURL = url
	}

	if req.APIKey != nil {
		s.APIKey = strings.TrimSpace(*req.APIKey)
	}

	if req.IntervalSeconds != nil {
		if *req.IntervalSeconds <= 0 {
			return fmt.Errorf("%w: interval_seconds must be positive", errInvalidSettings)
		}
		s.IntervalSeconds = *req.IntervalSeconds
	}

	if req.NotifyMode != nil {
		mode, err := config.ParseNotifyMode(*req.NotifyMode)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidSettings, err)
		}
		s.NotifyMode = mode
	}

	*s = s.Normalize()
	return nil
}

// HandleUpdateSettings validates and saves a settings update, then moves
// the scheduler to the new interval
func HandleUpdateSettings(store *config.Store, guard *monitor.URLGuard, scheduler Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		settings, err := store.Update(func(s *config.Settings) error {
			return req.Apply(s, guard)
		})
		if errors.Is(err, errInvalidSettings) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Printf("Failed to save settings: %v", err)
			http.Error(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}

		scheduler.Reconfigure(settings.IntervalSeconds)
		log.Printf("Settings updated by %s (interval: %ds, notify: %s)",
			subjectFromContext(r.Context()), settings.IntervalSeconds, settings.NotifyMode)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newSettingsResponse(settings))
	}
}
