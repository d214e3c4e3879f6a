package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/eventlog"
)

type recordedLine struct {
	level eventlog.Level
	msg   string
}

type fakeEvents struct{ lines []recordedLine }

func (f *fakeEvents) Log(level eventlog.Level, msg string) {
	f.lines = append(f.lines, recordedLine{level, msg})
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) NotifyDown(ctx context.Context, endpoint string, statusCode, ping int, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, "down:"+endpoint)
	return f.err
}

func (f *fakeNotifier) NotifyRecovered(ctx context.Context, endpoint string, statusCode, ping int, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, "recovered:"+endpoint)
	return f.err
}

type fakeBroadcaster struct{ messages []Snapshot }

func (f *fakeBroadcaster) Broadcast(msgType string, payload interface{}) error {
	f.messages = append(f.messages, payload.(Snapshot))
	return nil
}

func newTestStore(t *testing.T, s config.Settings) *config.Store {
	t.Helper()
	store := config.NewStore(filepath.Join(t.TempDir(), "cfg.json"))
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestExecutorRunCheck(t *testing.T) {
	store := newTestStore(t, config.Settings{APIURL: "https://example.com/health", APIKey: "k", IntervalSeconds: 30, NotifyMode: config.NotifyAll})
	prober, calls := scripted(
		ProbeResult{OK: true, StatusCode: 200},
		ProbeResult{OK: false, StatusCode: 503},
		ProbeResult{OK: true, StatusCode: 200},
	)
	events := &fakeEvents{}
	notifier := &fakeNotifier{}
	broadcaster := &fakeBroadcaster{}

	e := NewExecutor(store, prober, events, notifier, broadcaster)

	if snap := e.Snapshot(); snap.Status != StatusPending || snap.Last != nil || !snap.Configured {
		t.Errorf("initial snapshot = %+v", snap)
	}

	for _, trigger := range []string{"schedule", "manual", "schedule"} {
		if _, err := e.RunCheck(context.Background(), trigger); err != nil {
			t.Fatalf("RunCheck(%s): %v", trigger, err)
		}
	}

	if *calls != 3 {
		t.Errorf("probe calls = %d, want 3", *calls)
	}

	wantSent := []string{"down:https://example.com/health", "recovered:https://example.com/health"}
	if len(notifier.sent) != len(wantSent) {
		t.Fatalf("sent = %v, want %v", notifier.sent, wantSent)
	}
	for i := range wantSent {
		if notifier.sent[i] != wantSent[i] {
			t.Errorf("sent[%d] = %q, want %q", i, notifier.sent[i], wantSent[i])
		}
	}

	if len(events.lines) != 3 {
		t.Fatalf("event lines = %d, want 3", len(events.lines))
	}
	if events.lines[1].level != eventlog.LevelWarning || events.lines[1].msg != "Check DOWN (status=503, err=none)" {
		t.Errorf("down event = %+v", events.lines[1])
	}

	if len(broadcaster.messages) != 3 {
		t.Fatalf("broadcasts = %d, want 3", len(broadcaster.messages))
	}
	if broadcaster.messages[1].Indicator.Color != "red" {
		t.Errorf("broadcast indicator = %+v", broadcaster.messages[1].Indicator)
	}

	snap := e.Snapshot()
	if snap.Status != StatusUp || snap.Last == nil || snap.Last.Transition != TransitionRecovered {
		t.Errorf("final snapshot = %+v", snap)
	}
}

func TestExecutorNotifierErrorDoesNotFail(t *testing.T) {
	store := newTestStore(t, config.Settings{APIURL: "https://example.com", IntervalSeconds: 30, NotifyMode: config.NotifyFail})
	prober, _ := scripted(ProbeResult{OK: true, StatusCode: 200}, ProbeResult{OK: false, Err: "timeout"})
	notifier := &fakeNotifier{err: errors.New("no display")}

	e := NewExecutor(store, prober, nil, notifier, nil)
	e.RunCheck(context.Background(), "schedule")

	out, err := e.RunCheck(context.Background(), "schedule")
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if out.Notification != NotifyDown || len(notifier.sent) != 1 {
		t.Errorf("notification = %s, sent = %v", out.Notification, notifier.sent)
	}
}

func TestExecutorSettingsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	prober, calls := scripted(ProbeResult{OK: true})

	e := NewExecutor(config.NewStore(path), prober, nil, nil, nil)
	if _, err := e.RunCheck(context.Background(), "manual"); err == nil {
		t.Fatal("expected error for unreadable settings")
	}
	if *calls != 0 {
		t.Errorf("probe ran %d times despite settings error", *calls)
	}
	if e.Snapshot().Status != StatusPending {
		t.Error("status changed despite settings error")
	}
}

func TestExecutorIntervalChangeHook(t *testing.T) {
	store := newTestStore(t, config.Settings{APIURL: "https://example.com", IntervalSeconds: 60, NotifyMode: config.NotifyOff})
	prober, _ := scripted(ProbeResult{OK: true, StatusCode: 200})

	var changes []int
	e := NewExecutor(store, prober, nil, nil, nil)
	e.OnIntervalChange(60, func(seconds int) { changes = append(changes, seconds) })

	e.RunCheck(context.Background(), "schedule")
	if len(changes) != 0 {
		t.Fatalf("hook fired without a change: %v", changes)
	}

	store.Update(func(s *config.Settings) error {
		s.IntervalSeconds = 2
		return nil
	})
	e.RunCheck(context.Background(), "schedule")

	if len(changes) != 1 || changes[0] != 5 {
		t.Errorf("changes = %v, want [5]", changes)
	}
}

func TestExecutorSerializesChecks(t *testing.T) {
	store := newTestStore(t, config.Settings{APIURL: "https://example.com", IntervalSeconds: 30, NotifyMode: config.NotifyAll})

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	prober := ProberFunc(func(ctx context.Context, url, key string) ProbeResult {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
		return ProbeResult{OK: true, StatusCode: 200}
	})

	e := NewExecutor(store, prober, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.RunCheck(context.Background(), "manual")
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("max concurrent probes = %d, want 1", maxInFlight)
	}
}

func TestExecutorIgnoresCallerCancellation(t *testing.T) {
	store := newTestStore(t, config.Settings{APIURL: "https://example.com/health", IntervalSeconds: 30, NotifyMode: config.NotifyAll})
	prober := ProberFunc(func(ctx context.Context, url, key string) ProbeResult {
		if err := ctx.Err(); err != nil {
			return ProbeResult{Err: err.Error()}
		}
		return ProbeResult{OK: true, StatusCode: 200}
	})
	events := &fakeEvents{}
	notifier := &fakeNotifier{}

	e := NewExecutor(store, prober, events, notifier, nil)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	for _, ctx := range []context.Context{context.Background(), cancelled, context.Background()} {
		outcome, err := e.RunCheck(ctx, "manual")
		if err != nil {
			t.Fatalf("RunCheck: %v", err)
		}
		if outcome.Status != StatusUp {
			t.Errorf("status = %s, want up (log %q)", outcome.Status, outcome.LogLine)
		}
	}

	if len(notifier.sent) != 0 {
		t.Errorf("notifications = %v, want none", notifier.sent)
	}
	for _, l := range events.lines {
		if l.level != eventlog.LevelInfo {
			t.Errorf("unexpected %s line %q", l.level, l.msg)
		}
	}
}
