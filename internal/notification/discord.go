package notification

import (
	"context"
	"fmt"
)

// DiscordProvider sends Discord webhook notifications
type DiscordProvider struct{}

func init() {
	RegisterProvider(&DiscordProvider{})
}

func (d *DiscordProvider) Name() string {
	return "discord"
}

func (d *DiscordProvider) Send(ctx context.Context, notification *Notification, message *Message) error {
	webhookURL, _ := notification.Config["webhook_url"].(string)
	username, _ := notification.Config["username"].(string)

	if webhookURL == "" {
		return fmt.Errorf("webhook_url is required")
	}
	if username == "" {
		username = "API Tray"
	}

	color := 0x808080
	switch message.Status {
	case "up":
		color = 0x00FF00
	case "down":
		color = 0xFF0000
	}

	fields := []map[string]interface{}{
		{"name": "Endpoint", "value": message.Endpoint, "inline": false},
		{"name": "Status", "value": message.Status, "inline": true},
	}
	if message.StatusCode != 0 {
		fields = append(fields, map[string]interface{}{
			"name":   "HTTP Status",
			"value":  fmt.Sprintf("%d", message.StatusCode),
			"inline": true,
		})
	}
	if message.Ping > 0 {
		fields = append(fields, map[string]interface{}{
			"name":   "Response Time",
			"value":  fmt.Sprintf("%dms", message.Ping),
			"inline": true,
		})
	}

	payload := map[string]interface{}{
		"username": username,
		"embeds": []interface{}{
			map[string]interface{}{
				"title":       message.Title,
				"description": message.Body,
				"color":       color,
				"timestamp":   message.Time,
				"fields":      fields,
			},
		},
	}

	if err := postJSON(ctx, "POST", webhookURL, payload, nil); err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	return nil
}

func (d *DiscordProvider) Validate(config map[string]interface{}) error {
	webhookURL, ok := config["webhook_url"].(string)
	if !ok || webhookURL == "" {
		return fmt.Errorf("webhook_url is required")
	}
	return nil
}
