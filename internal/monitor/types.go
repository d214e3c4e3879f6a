package monitor

import "context"

// Status is the last known health of the endpoint
type Status int

// Status constants
const (
	StatusDown    Status = 0
	StatusUp      Status = 1
	StatusPending Status = 2 // no check has completed yet
)

// String returns the status name used in logs and API responses
func (s Status) String() string {
	switch s {
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Transition is the edge between two consecutive observations
type Transition int

const (
	TransitionNone Transition = iota
	TransitionFirst
	TransitionDown
	TransitionRecovered
)

func (t Transition) String() string {
	switch t {
	case TransitionFirst:
		return "first_observation"
	case TransitionDown:
		return "became_down"
	case TransitionRecovered:
		return "recovered"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Transition) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// NotificationKind is the notification a transition produces, if any
type NotificationKind int

const (
	NotifyNone NotificationKind = iota
	NotifyDown
	NotifyRecovered
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyDown:
		return "down"
	case NotifyRecovered:
		return "recovered"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k NotificationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ProbeResult is the outcome of a single health check
type ProbeResult struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"` // 0 when no response was received
	Err        string `json:"error,omitempty"`       // transport error, empty otherwise
	Ping       int    `json:"ping"`                  // milliseconds
}

// Prober performs health checks against an endpoint
type Prober interface {
	Probe(ctx context.Context, url, key string) ProbeResult
}

// ProberFunc adapts a function to the Prober interface
type ProberFunc func(ctx context.Context, url, key string) ProbeResult

// Probe calls f
func (f ProberFunc) Probe(ctx context.Context, url, key string) ProbeResult {
	return f(ctx, url, key)
}
