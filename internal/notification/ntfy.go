package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// NtfyProvider publishes to an ntfy topic (self-hosted or ntfy.sh) through
// the JSON publish endpoint at the server root.
type NtfyProvider struct{}

func init() {
	RegisterProvider(&NtfyProvider{})
}

func (n *NtfyProvider) Name() string {
	return "ntfy"
}

type ntfyAction struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	URL    string `json:"url"`
}

type ntfyPublish struct {
	Topic    string       `json:"topic"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Priority int          `json:"priority"`
	Tags     []string     `json:"tags,omitempty"`
	Click    string       `json:"click,omitempty"`
	Actions  []ntfyAction `json:"actions,omitempty"`
}

func (n *NtfyProvider) Send(ctx context.Context, notification *Notification, message *Message) error {
	serverURL, _ := notification.Config["server_url"].(string)
	topic, _ := notification.Config["topic"].(string)
	priority, _ := notification.Config["priority"].(float64)

	if serverURL == "" {
		serverURL = "https://ntfy.sh"
	}
	if topic == "" {
		return fmt.Errorf("topic is required")
	}

	publish := ntfyPublish{
		Topic:    topic,
		Title:    message.Title,
		Message:  ntfySummary(message),
		Priority: int(priority),
		Tags:     ntfyTags(message.Status),
	}
	if publish.Priority == 0 {
		publish.Priority = ntfyPriority(message.Status)
	}
	if message.Endpoint != "" {
		publish.Click = message.Endpoint
		publish.Actions = []ntfyAction{{Action: "view", Label: "Open endpoint", URL: message.Endpoint}}
	}

	if err := postJSON(ctx, "POST", strings.TrimRight(serverURL, "/"), publish, ntfyAuth(notification.Config)); err != nil {
		return fmt.Errorf("failed to send ntfy notification: %w", err)
	}
	return nil
}

func (n *NtfyProvider) Validate(config map[string]interface{}) error {
	topic, ok := config["topic"].(string)
	if !ok || topic == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// ntfySummary fits the check result on one phone-notification line
func ntfySummary(message *Message) string {
	if message.Endpoint == "" {
		return message.Body
	}

	var b strings.Builder
	b.WriteString(message.Endpoint)
	switch {
	case message.StatusCode != 0:
		fmt.Fprintf(&b, " answered HTTP %d", message.StatusCode)
	case message.Status == "down":
		b.WriteString(" did not answer")
	}
	if message.Ping > 0 {
		fmt.Fprintf(&b, " in %dms", message.Ping)
	}
	if message.Body != "" {
		b.WriteString("\n" + message.Body)
	}
	return b.String()
}

// ntfyAuth prefers an access token over basic credentials
func ntfyAuth(config map[string]interface{}) map[string]string {
	if token, _ := config["token"].(string); token != "" {
		return map[string]string{"Authorization": "Bearer " + token}
	}

	username, _ := config["username"].(string)
	password, _ := config["password"].(string)
	if username == "" || password == "" {
		return nil
	}
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return map[string]string{"Authorization": "Basic " + creds}
}

func ntfyPriority(status string) int {
	switch status {
	case "down":
		return 4
	case "up":
		return 3
	default:
		return 2
	}
}

func ntfyTags(status string) []string {
	switch status {
	case "up":
		return []string{"white_check_mark"}
	case "down":
		return []string{"rotating_light"}
	default:
		return []string{"information_source"}
	}
}
