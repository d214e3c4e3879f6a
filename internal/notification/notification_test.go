package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fuomag9/apitray/internal/config"
)

type captured struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func (c *captured) server(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.requests = append(c.requests, r)
		c.bodies = append(c.bodies, string(body))
		c.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebhookProviderSend(t *testing.T) {
	var c captured
	srv := c.server(t, http.StatusNoContent)

	n := &Notification{Name: "hook", Type: "webhook", Config: map[string]interface{}{
		"webhook_url": srv.URL,
		"headers":     map[string]interface{}{"X-Token": "abc"},
	}}
	msg := &Message{Title: "API is DOWN", Endpoint: "https://example.com", Status: "down", StatusCode: 500}

	if err := (&WebhookProvider{}).Send(context.Background(), n, msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(c.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(c.requests))
	}
	if got := c.requests[0].Header.Get("X-Token"); got != "abc" {
		t.Errorf("X-Token = %q", got)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(c.bodies[0]), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["status"] != "down" || payload["status_code"].(float64) != 500 {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestWebhookProviderErrorStatus(t *testing.T) {
	var c captured
	srv := c.server(t, http.StatusInternalServerError)

	n := &Notification{Type: "webhook", Config: map[string]interface{}{"webhook_url": srv.URL}}
	if err := (&WebhookProvider{}).Send(context.Background(), n, &Message{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNtfyProviderSend(t *testing.T) {
	var c captured
	srv := c.server(t, http.StatusOK)

	n := &Notification{Type: "ntfy", Config: map[string]interface{}{
		"server_url": srv.URL + "/",
		"topic":      "my-api",
		"username":   "bob",
		"password":   "secret",
	}}
	msg := &Message{Title: "API is DOWN", Status: "down", Endpoint: "https://example.com/health", StatusCode: 503, Ping: 42, Time: "now"}

	if err := (&NtfyProvider{}).Send(context.Background(), n, msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	r := c.requests[0]
	if r.URL.Path != "/" {
		t.Errorf("path = %q, want /", r.URL.Path)
	}
	if user, pass, ok := r.BasicAuth(); !ok || user != "bob" || pass != "secret" {
		t.Errorf("basic auth = %q, %q, %v", user, pass, ok)
	}

	var payload ntfyPublish
	if err := json.Unmarshal([]byte(c.bodies[0]), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload.Topic != "my-api" || payload.Title != "API is DOWN" || payload.Priority != 4 {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if payload.Message != "https://example.com/health answered HTTP 503 in 42ms" {
		t.Errorf("message = %q", payload.Message)
	}
	if payload.Click != "https://example.com/health" || len(payload.Actions) != 1 {
		t.Errorf("click/actions = %q, %+v", payload.Click, payload.Actions)
	}
}

func TestNtfySummary(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{Message{Endpoint: "https://a", Status: "up", StatusCode: 200, Ping: 12}, "https://a answered HTTP 200 in 12ms"},
		{Message{Endpoint: "https://a", Status: "down", Body: "Check DOWN (status=none, err=timeout)"}, "https://a did not answer\nCheck DOWN (status=none, err=timeout)"},
		{Message{Body: "This is a test notification from apitray."}, "This is a test notification from apitray."},
	}

	for _, tt := range tests {
		if got := ntfySummary(&tt.msg); got != tt.want {
			t.Errorf("ntfySummary(%+v) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestNtfyAuth(t *testing.T) {
	token := ntfyAuth(map[string]interface{}{"token": "tk_abc", "username": "bob", "password": "x"})
	if token["Authorization"] != "Bearer tk_abc" {
		t.Errorf("token auth = %v", token)
	}
	if got := ntfyAuth(map[string]interface{}{"username": "bob"}); got != nil {
		t.Errorf("username without password = %v, want nil", got)
	}
}

func TestDiscordProviderSend(t *testing.T) {
	var c captured
	srv := c.server(t, http.StatusNoContent)

	n := &Notification{Type: "discord", Config: map[string]interface{}{"webhook_url": srv.URL}}
	msg := &Message{Title: "API recovered", Status: "up", Ping: 42}

	if err := (&DiscordProvider{}).Send(context.Background(), n, msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var payload struct {
		Username string `json:"username"`
		Embeds   []struct {
			Title string `json:"title"`
			Color int    `json:"color"`
		} `json:"embeds"`
	}
	if err := json.Unmarshal([]byte(c.bodies[0]), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Username != "API Tray" {
		t.Errorf("username = %q", payload.Username)
	}
	if len(payload.Embeds) != 1 || payload.Embeds[0].Color != 0x00FF00 {
		t.Errorf("unexpected embeds: %+v", payload.Embeds)
	}
}

func TestDesktopProviderSend(t *testing.T) {
	var gotTitle, gotBody string
	orig := desktopNotify
	desktopNotify = func(title, message, appIcon string) error {
		gotTitle, gotBody = title, message
		return nil
	}
	t.Cleanup(func() { desktopNotify = orig })

	n := &Notification{Type: "desktop", Config: map[string]interface{}{}}
	msg := &Message{Title: "API is DOWN", Body: "Check DOWN", Endpoint: "https://example.com"}

	if err := (&DesktopProvider{}).Send(context.Background(), n, msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotTitle != "API is DOWN" {
		t.Errorf("title = %q", gotTitle)
	}
	if gotBody != "https://example.com\nCheck DOWN" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestNewDispatcherValidation(t *testing.T) {
	if _, err := NewDispatcher([]config.NotifierConfig{{Type: "carrier-pigeon"}}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewDispatcher([]config.NotifierConfig{{Type: "ntfy", Name: "ntfy"}}); err == nil {
		t.Error("expected error for ntfy without topic")
	}

	d, err := NewDispatcher(nil)
	if err != nil {
		t.Fatalf("NewDispatcher(nil): %v", err)
	}
	if err := d.NotifyDown(context.Background(), "", 0, 0, ""); err != nil {
		t.Errorf("dispatch with no targets: %v", err)
	}
}

func TestDispatcherSendsToAllTargets(t *testing.T) {
	var ok, failing captured
	okSrv := ok.server(t, http.StatusOK)
	failSrv := failing.server(t, http.StatusBadGateway)

	d, err := NewDispatcher([]config.NotifierConfig{
		{Type: "webhook", Name: "good", Config: map[string]interface{}{"webhook_url": okSrv.URL}},
		{Type: "webhook", Name: "bad", Config: map[string]interface{}{"webhook_url": failSrv.URL}},
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	err = d.NotifyRecovered(context.Background(), "https://example.com", 200, 12, "Check OK (status=200)")
	if err == nil {
		t.Fatal("expected aggregate error when one target fails")
	}
	if !strings.Contains(err.Error(), "1/2") {
		t.Errorf("error = %v, want 1/2 failures", err)
	}
	if len(ok.requests) != 1 || len(failing.requests) != 1 {
		t.Errorf("requests: good=%d bad=%d, want 1 each", len(ok.requests), len(failing.requests))
	}
	if !strings.Contains(ok.bodies[0], `"status":"up"`) {
		t.Errorf("recovered payload = %s", ok.bodies[0])
	}
}

func TestDispatcherDesktopError(t *testing.T) {
	orig := desktopNotify
	desktopNotify = func(title, message, appIcon string) error { return errors.New("no display") }
	t.Cleanup(func() { desktopNotify = orig })

	d, err := NewDispatcher([]config.NotifierConfig{{Type: "desktop", Name: "Desktop"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.TestNotification(context.Background()); err == nil {
		t.Error("expected error from failing desktop notifier")
	}
}

func TestFormatMessage(t *testing.T) {
	out := FormatMessage(&Message{
		Title:      "API is DOWN",
		Body:       "Check DOWN (status=503, err=none)",
		Endpoint:   "https://example.com",
		StatusCode: 503,
		Time:       "2026-01-01T00:00:00Z",
	})

	for _, want := range []string{"API is DOWN", "Endpoint: https://example.com", "HTTP Status: 503", "Time: 2026-01-01T00:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatMessage output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Response Time") {
		t.Error("zero ping should be omitted")
	}
}
