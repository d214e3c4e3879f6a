package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/eventlog"
)

// EventLog receives one line per check
type EventLog interface {
	Log(level eventlog.Level, msg string)
}

// Notifier delivers down and recovered notifications
type Notifier interface {
	NotifyDown(ctx context.Context, endpoint string, statusCode, ping int, detail string) error
	NotifyRecovered(ctx context.Context, endpoint string, statusCode, ping int, detail string) error
}

// Broadcaster pushes status updates to connected clients
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Snapshot is the executor's current view of the endpoint
type Snapshot struct {
	Status     Status    `json:"status"`
	Indicator  Indicator `json:"indicator"`
	Configured bool      `json:"configured"`
	Last       *Outcome  `json:"last,omitempty"`
}

// Executor owns the endpoint status and runs the check pipeline. Scheduled
// ticks and manual checks both go through RunCheck, which never runs
// concurrently with itself.
type Executor struct {
	store       *config.Store
	prober      Prober
	events      EventLog
	notifier    Notifier
	broadcaster Broadcaster

	mu         sync.Mutex // held for a whole check
	status     Status
	last       *Outcome
	interval   int
	onInterval func(seconds int)
}

// NewExecutor creates an executor. events, notifier and broadcaster may be nil.
func NewExecutor(store *config.Store, prober Prober, events EventLog, notifier Notifier, broadcaster Broadcaster) *Executor {
	return &Executor{
		store:       store,
		prober:      prober,
		events:      events,
		notifier:    notifier,
		broadcaster: broadcaster,
		status:      StatusPending,
	}
}

// OnIntervalChange registers fn to be called when a check finds an interval
// in the settings file that differs from current, e.g. after a CLI edit
func (e *Executor) OnIntervalChange(current int, fn func(seconds int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = current
	e.onInterval = fn
}

// Settings loads and normalizes the current settings
func (e *Executor) Settings() (config.Settings, error) {
	settings, err := e.store.Load()
	if err != nil {
		return settings, err
	}
	return settings.Normalize(), nil
}

// RunCheck performs one check and applies its side effects: event log,
// notification and broadcast. trigger names the caller for the process log.
func (e *Executor) RunCheck(ctx context.Context, trigger string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings, err := e.Settings()
	if err != nil {
		log.Printf("Check (%s) skipped: %v", trigger, err)
		return Outcome{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if e.interval != 0 && settings.IntervalSeconds != e.interval && e.onInterval != nil {
		e.onInterval(settings.IntervalSeconds)
	}
	e.interval = settings.IntervalSeconds

	// A check that started runs to completion even if the caller goes away,
	// so an aborted request or shutdown is never recorded as the endpoint
	// going down.
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ProbeTimeout+5*time.Second)
	defer cancel()

	outcome := Check(checkCtx, e.prober, settings, e.status)
	e.status = outcome.Status
	e.last = &outcome

	if e.events != nil {
		e.events.Log(outcome.Level, outcome.LogLine)
	}

	e.notify(checkCtx, settings, outcome)

	if e.broadcaster != nil {
		if err := e.broadcaster.Broadcast("status", e.snapshotLocked(settings.Configured())); err != nil {
			log.Printf("Failed to broadcast status: %v", err)
		}
	}

	log.Printf("Check (%s): %s - %s - %dms - %s",
		trigger, outcome.Status, outcome.Transition, outcome.Result.Ping, outcome.LogLine)

	return outcome, nil
}

func (e *Executor) notify(ctx context.Context, settings config.Settings, outcome Outcome) {
	if e.notifier == nil {
		return
	}

	var err error
	switch outcome.Notification {
	case NotifyDown:
		err = e.notifier.NotifyDown(ctx, settings.APIURL, outcome.Result.StatusCode, outcome.Result.Ping, outcome.LogLine)
	case NotifyRecovered:
		err = e.notifier.NotifyRecovered(ctx, settings.APIURL, outcome.Result.StatusCode, outcome.Result.Ping, outcome.LogLine)
	default:
		return
	}

	if err != nil {
		log.Printf("Failed to send %s notification: %v", outcome.Notification, err)
		return
	}
	log.Printf("Sent %s notification for %s", outcome.Notification, settings.APIURL)
}

// Snapshot returns the current status without running a check
func (e *Executor) Snapshot() Snapshot {
	configured := false
	if settings, err := e.Settings(); err == nil {
		configured = settings.Configured()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(configured)
}

func (e *Executor) snapshotLocked(configured bool) Snapshot {
	snap := Snapshot{
		Status:     e.status,
		Indicator:  IndicatorFor(e.status),
		Configured: configured,
	}
	if e.last != nil {
		last := *e.last
		snap.Last = &last
	}
	return snap
}
