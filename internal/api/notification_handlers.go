package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fuomag9/apitray/internal/notification"
)

// NotificationTarget is a configured target without its secrets
type NotificationTarget struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// HandleGetNotificationTargets lists the configured notification targets
func HandleGetNotificationTargets(dispatcher *notification.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targets := make([]NotificationTarget, 0, len(dispatcher.Targets()))
		for _, t := range dispatcher.Targets() {
			targets = append(targets, NotificationTarget{Name: t.Name, Type: t.Type})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"targets":   targets,
			"providers": notification.ProviderNames(),
		})
	}
}

// HandleTestNotification sends a test message to every target
func HandleTestNotification(dispatcher *notification.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(dispatcher.Targets()) == 0 {
			http.Error(w, "No notification targets configured", http.StatusBadRequest)
			return
		}

		if err := dispatcher.TestNotification(r.Context()); err != nil {
			log.Printf("Test notification failed: %v", err)
			http.Error(w, "Failed to send test notification: "+err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Test notification sent successfully",
		})
	}
}
