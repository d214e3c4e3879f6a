package monitor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/eventlog"
)

// Indicator is what a tray front-end shows for a status
type Indicator struct {
	Color   string `json:"color"` // gray, green or red
	Tooltip string `json:"tooltip"`
}

// IndicatorFor returns the indicator for a status
func IndicatorFor(s Status) Indicator {
	switch s {
	case StatusUp:
		return Indicator{Color: "green", Tooltip: "API status: OK"}
	case StatusDown:
		return Indicator{Color: "red", Tooltip: "API status: DOWN"}
	default:
		return Indicator{Color: "gray", Tooltip: "API Status Checker"}
	}
}

// Outcome is everything produced by one pass of the check pipeline
type Outcome struct {
	Result       ProbeResult      `json:"result"`
	Previous     Status           `json:"previous"`
	Status       Status           `json:"status"`
	Transition   Transition       `json:"transition"`
	Notification NotificationKind `json:"notification"`
	Level        eventlog.Level   `json:"level"`
	LogLine      string           `json:"log_line"`
	Indicator    Indicator        `json:"indicator"`
	Configured   bool             `json:"configured"`
	CheckedAt    time.Time        `json:"checked_at"`
}

// Check probes the configured endpoint and derives the new status, the
// notification to send and the log line to write. It has no side effects
// beyond the probe itself.
func Check(ctx context.Context, prober Prober, settings config.Settings, previous Status) Outcome {
	settings = settings.Normalize()

	result := prober.Probe(ctx, settings.APIURL, settings.APIKey)
	transition, status := Observe(previous, result.OK)
	notification := ShouldNotify(transition, settings.NotifyMode)

	level := eventlog.LevelInfo
	if !result.OK {
		level = eventlog.LevelWarning
	}

	return Outcome{
		Result:       result,
		Previous:     previous,
		Status:       status,
		Transition:   transition,
		Notification: notification,
		Level:        level,
		LogLine:      FormatLogLine(result),
		Indicator:    IndicatorFor(status),
		Configured:   settings.Configured(),
		CheckedAt:    time.Now(),
	}
}

// FormatLogLine renders a probe result as a single event-log line
func FormatLogLine(result ProbeResult) string {
	code := "none"
	if result.StatusCode != 0 {
		code = strconv.Itoa(result.StatusCode)
	}

	if result.OK {
		return fmt.Sprintf("Check OK (status=%s)", code)
	}

	errText := "none"
	if result.Err != "" {
		errText = result.Err
	}
	return fmt.Sprintf("Check DOWN (status=%s, err=%s)", code, errText)
}
