package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fuomag9/apitray/internal/config"
)

// Dispatcher sends status changes to every configured target
type Dispatcher struct {
	targets []*Notification
}

// NewDispatcher creates a dispatcher for the configured targets.
// Targets with an unknown type or invalid settings are rejected.
func NewDispatcher(notifiers []config.NotifierConfig) (*Dispatcher, error) {
	targets := make([]*Notification, 0, len(notifiers))

	for _, n := range notifiers {
		provider, ok := GetProvider(n.Type)
		if !ok {
			return nil, fmt.Errorf("unknown notification provider: %s", n.Type)
		}

		cfg := n.Config
		if cfg == nil {
			cfg = map[string]interface{}{}
		}
		if err := provider.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid %s notifier %q: %w", n.Type, n.Name, err)
		}

		targets = append(targets, &Notification{Name: n.Name, Type: n.Type, Config: cfg})
	}

	return &Dispatcher{targets: targets}, nil
}

// Targets returns the configured targets
func (d *Dispatcher) Targets() []*Notification {
	return d.targets
}

// NotifyDown sends notifications when the endpoint goes down
func (d *Dispatcher) NotifyDown(ctx context.Context, endpoint string, statusCode, ping int, detail string) error {
	return d.send(ctx, &Message{
		Title:      "API is DOWN",
		Body:       detail,
		Endpoint:   endpoint,
		Status:     "down",
		StatusCode: statusCode,
		Ping:       ping,
		Time:       time.Now().Format(time.RFC3339),
		Important:  true,
	})
}

// NotifyRecovered sends notifications when the endpoint comes back up
func (d *Dispatcher) NotifyRecovered(ctx context.Context, endpoint string, statusCode, ping int, detail string) error {
	return d.send(ctx, &Message{
		Title:      "API recovered",
		Body:       detail,
		Endpoint:   endpoint,
		Status:     "up",
		StatusCode: statusCode,
		Ping:       ping,
		Time:       time.Now().Format(time.RFC3339),
		Important:  false,
	})
}

// TestNotification sends a test message to every target
func (d *Dispatcher) TestNotification(ctx context.Context) error {
	return d.send(ctx, &Message{
		Title:  "Test Notification",
		Body:   "This is a test notification from apitray.",
		Status: "up",
		Time:   time.Now().Format(time.RFC3339),
	})
}

// send delivers msg to all targets concurrently
func (d *Dispatcher) send(ctx context.Context, msg *Message) error {
	if len(d.targets) == 0 {
		return nil
	}

	errs := make([]error, len(d.targets))
	var g errgroup.Group
	for i, target := range d.targets {
		i, target := i, target
		g.Go(func() error {
			provider, ok := GetProvider(target.Type)
			if !ok {
				errs[i] = fmt.Errorf("unknown notification provider: %s", target.Type)
				return nil
			}
			if err := provider.Send(ctx, target, msg); err != nil {
				log.Printf("Failed to send notification via %s (%s): %v", target.Type, target.Name, err)
				errs[i] = fmt.Errorf("%s: %w", target.Name, err)
			}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to send %d/%d notifications: %w", failed, len(d.targets), errors.Join(errs...))
	}

	return nil
}
