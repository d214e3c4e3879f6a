package notification

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// desktopNotify is swapped out in tests
var desktopNotify = beeep.Notify

// DesktopProvider shows a native desktop notification
type DesktopProvider struct{}

func init() {
	RegisterProvider(&DesktopProvider{})
}

func (d *DesktopProvider) Name() string {
	return "desktop"
}

func (d *DesktopProvider) Send(ctx context.Context, notification *Notification, message *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	icon, _ := notification.Config["app_icon"].(string)

	body := message.Body
	if message.Endpoint != "" {
		body = fmt.Sprintf("%s\n%s", message.Endpoint, body)
	}

	if err := desktopNotify(message.Title, body, icon); err != nil {
		return fmt.Errorf("failed to show desktop notification: %w", err)
	}
	return nil
}

func (d *DesktopProvider) Validate(config map[string]interface{}) error {
	return nil
}
