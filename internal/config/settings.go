package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NotifyMode controls which status transitions produce a notification
type NotifyMode string

const (
	NotifyAll  NotifyMode = "all"  // down and recovered
	NotifyFail NotifyMode = "fail" // down only
	NotifyOff  NotifyMode = "off"
)

const (
	// MinIntervalSeconds is the shortest poll period the scheduler accepts
	MinIntervalSeconds = 5

	// DefaultIntervalSeconds is used when no settings file exists yet
	DefaultIntervalSeconds = 60
)

// ParseNotifyMode parses a notify mode, ignoring case and surrounding spaces
func ParseNotifyMode(s string) (NotifyMode, error) {
	switch NotifyMode(strings.ToLower(strings.TrimSpace(s))) {
	case NotifyAll:
		return NotifyAll, nil
	case NotifyFail:
		return NotifyFail, nil
	case NotifyOff:
		return NotifyOff, nil
	}
	return "", fmt.Errorf("invalid notify mode %q (want all, fail or off)", s)
}

// Settings is the user-editable monitoring configuration persisted as JSON
type Settings struct {
	APIURL          string     `json:"api_url"`          // empty means unconfigured
	APIKey          string     `json:"api_key"`          // empty means no Authorization header
	IntervalSeconds int        `json:"interval_seconds"` // clamped to MinIntervalSeconds
	NotifyMode      NotifyMode `json:"notify_mode"`
}

// DefaultSettings returns the settings used on first run
func DefaultSettings() Settings {
	return Settings{
		APIURL:          "",
		APIKey:          "",
		IntervalSeconds: DefaultIntervalSeconds,
		NotifyMode:      NotifyAll,
	}
}

// Normalize clamps the interval and replaces an unknown notify mode with the default
func (s Settings) Normalize() Settings {
	s.IntervalSeconds = ClampInterval(s.IntervalSeconds)
	if mode, err := ParseNotifyMode(string(s.NotifyMode)); err == nil {
		s.NotifyMode = mode
	} else {
		s.NotifyMode = NotifyAll
	}
	return s
}

// Configured reports whether an endpoint URL has been set
func (s Settings) Configured() bool {
	return s.APIURL != ""
}

// MaskedKey returns the key with every character replaced by '*'
func (s Settings) MaskedKey() string {
	return strings.Repeat("*", len(s.APIKey))
}

// ClampInterval returns max(MinIntervalSeconds, seconds)
func ClampInterval(seconds int) int {
	if seconds < MinIntervalSeconds {
		return MinIntervalSeconds
	}
	return seconds
}

// Store loads and saves Settings at a fixed path
type Store struct {
	path string
}

// NewStore creates a settings store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields DefaultSettings.
// The returned value is not normalized so that Save(Load()) round-trips.
func (s *Store) Load() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}

	return settings, nil
}

// Save overwrites the settings file with the given value
func (s *Store) Save(settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Update loads the settings, applies fn and saves the result
func (s *Store) Update(fn func(*Settings) error) (Settings, error) {
	settings, err := s.Load()
	if err != nil {
		return settings, err
	}

	if err := fn(&settings); err != nil {
		return settings, err
	}

	if err := s.Save(settings); err != nil {
		return settings, err
	}

	return settings, nil
}
