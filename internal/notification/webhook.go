package notification

import (
	"context"
	"fmt"
)

// WebhookProvider posts a JSON payload to an arbitrary URL
type WebhookProvider struct{}

func init() {
	RegisterProvider(&WebhookProvider{})
}

func (w *WebhookProvider) Name() string {
	return "webhook"
}

func (w *WebhookProvider) Send(ctx context.Context, notification *Notification, message *Message) error {
	url, _ := notification.Config["webhook_url"].(string)
	method, _ := notification.Config["method"].(string)
	customHeaders, _ := notification.Config["headers"].(map[string]interface{})

	if url == "" {
		return fmt.Errorf("webhook_url is required")
	}
	if method == "" {
		method = "POST"
	}

	headers := make(map[string]string, len(customHeaders))
	for key, value := range customHeaders {
		if str, ok := value.(string); ok {
			headers[key] = str
		}
	}

	payload := map[string]interface{}{
		"title":       message.Title,
		"body":        message.Body,
		"endpoint":    message.Endpoint,
		"status":      message.Status,
		"status_code": message.StatusCode,
		"ping":        message.Ping,
		"time":        message.Time,
		"important":   message.Important,
	}

	if err := postJSON(ctx, method, url, payload, headers); err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	return nil
}

func (w *WebhookProvider) Validate(config map[string]interface{}) error {
	url, ok := config["webhook_url"].(string)
	if !ok || url == "" {
		return fmt.Errorf("webhook_url is required")
	}
	return nil
}
