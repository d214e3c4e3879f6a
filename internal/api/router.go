package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/monitor"
	"github.com/fuomag9/apitray/internal/notification"
	"github.com/fuomag9/apitray/internal/websocket"
)

// NewRouter creates the control API router
func NewRouter(cfg *config.Config, store *config.Store, hub *websocket.Hub, executor *monitor.Executor, scheduler Scheduler, dispatcher *notification.Dispatcher) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware(cfg))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	guard := monitor.NewURLGuard(cfg.AllowPrivateIPs)
	apiLimiter := NewRateLimiter(rate.Limit(20), 40)
	checkLimiter := NewRateLimiter(rate.Limit(0.5), 3)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(RateLimitMiddleware(apiLimiter, "Rate limit exceeded. Please try again later."))

		// Badges are embeddable and carry no secrets
		r.Get("/badge/status", HandleStatusBadge(executor))
		r.Get("/badge/ping", HandlePingBadge(executor))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Secret))

			r.Get("/status", HandleGetStatus(executor, scheduler))
			r.With(RateLimitMiddleware(checkLimiter, "Too many checks. Please try again later.")).
				Post("/check", HandleCheckNow(executor))

			r.Get("/settings", HandleGetSettings(store))
			r.Put("/settings", HandleUpdateSettings(store, guard, scheduler))

			r.Get("/logs", HandleGetLogs(cfg.LogPath))
			r.Get("/paths", HandleGetPaths(cfg))

			r.Get("/notifications", HandleGetNotificationTargets(dispatcher))
			r.Post("/notifications/test", HandleTestNotification(dispatcher))
		})
	})

	// Prometheus metrics endpoint (no auth required)
	r.Get("/metrics", HandlePrometheusMetrics(executor, scheduler, hub))

	// WebSocket endpoint, authenticated by the hub
	r.Get("/ws", hub.HandleWebSocket)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
