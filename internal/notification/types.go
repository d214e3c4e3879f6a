package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Provider defines the interface for all notification providers
type Provider interface {
	// Name returns the unique identifier for this provider
	Name() string

	// Send delivers the message to the target described by notification
	Send(ctx context.Context, notification *Notification, message *Message) error

	// Validate validates the provider configuration
	Validate(config map[string]interface{}) error
}

// Notification is one configured notification target
type Notification struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"` // desktop, ntfy, webhook, discord
	Config map[string]interface{} `json:"config"`
}

// Message is a status change to be delivered
type Message struct {
	Title      string
	Body       string
	Endpoint   string // the monitored URL
	Status     string // "up" or "down"
	StatusCode int
	Ping       int // milliseconds
	Time       string
	Important  bool
}

// Registry holds all registered notification providers
var (
	providers = make(map[string]Provider)
	mu        sync.RWMutex
)

// RegisterProvider registers a new notification provider
func RegisterProvider(provider Provider) {
	mu.Lock()
	defer mu.Unlock()
	providers[provider.Name()] = provider
}

// GetProvider returns a provider by name
func GetProvider(name string) (Provider, bool) {
	mu.RLock()
	defer mu.RUnlock()
	provider, ok := providers[name]
	return provider, ok
}

// ProviderNames returns the names of all registered providers
func ProviderNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// FormatMessage renders a message as plain text
func FormatMessage(msg *Message) string {
	var b strings.Builder

	b.WriteString(msg.Title + "\n\n")
	if msg.Body != "" {
		b.WriteString(msg.Body + "\n\n")
	}

	if msg.Endpoint != "" {
		fmt.Fprintf(&b, "Endpoint: %s\n", msg.Endpoint)
	}
	if msg.StatusCode != 0 {
		fmt.Fprintf(&b, "HTTP Status: %d\n", msg.StatusCode)
	}
	if msg.Ping > 0 {
		fmt.Fprintf(&b, "Response Time: %dms\n", msg.Ping)
	}
	fmt.Fprintf(&b, "Time: %s\n", msg.Time)

	return b.String()
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// postJSON sends payload as JSON and fails on a non-2xx response
func postJSON(ctx context.Context, method, url string, payload interface{}, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "apitray/1.0")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil
}
