package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/api"
	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/eventlog"
	"github.com/fuomag9/apitray/internal/jobs"
	"github.com/fuomag9/apitray/internal/monitor"
	"github.com/fuomag9/apitray/internal/notification"
	"github.com/fuomag9/apitray/internal/websocket"
)

var checkOnStart bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent: scheduled checks plus the control API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runAgent(ctx, cfg)
	},
}

func init() {
	runCmd.Flags().BoolVar(&checkOnStart, "check-on-start", false, "Run one check immediately when a URL is configured")
	rootCmd.AddCommand(runCmd)
}

// runAgent wires the agent together and blocks until ctx is done
func runAgent(ctx context.Context, cfg *config.Config) error {
	store := config.NewStore(cfg.SettingsPath)

	events, err := eventlog.Open(cfg.LogPath)
	if err != nil {
		return err
	}
	defer events.Close()

	// Initialize WebSocket hub
	hub := websocket.NewHub(cfg.Secret, cfg.CORSOrigins)
	go hub.Run(ctx)

	// Initialize notification dispatcher
	dispatcher, err := notification.NewDispatcher(cfg.Notifiers)
	if err != nil {
		return fmt.Errorf("failed to configure notifications: %w", err)
	}
	for _, t := range dispatcher.Targets() {
		log.Printf("Notification target: %s (%s)", t.Name, t.Type)
	}

	// Initialize check executor
	executor := monitor.NewExecutor(store, monitor.NewHTTPProber(), events, dispatcher, hub)
	settings, err := executor.Settings()
	if err != nil {
		return err
	}

	// Initialize scheduler
	scheduler := jobs.NewScheduler(func() {
		executor.RunCheck(ctx, "schedule")
	})
	executor.OnIntervalChange(settings.IntervalSeconds, scheduler.Reconfigure)
	if err := scheduler.Start(settings.IntervalSeconds); err != nil {
		return err
	}
	defer scheduler.Stop()

	events.Info(fmt.Sprintf("Agent started (url=%s, interval=%ds, notify=%s)",
		displayURL(settings.APIURL), settings.IntervalSeconds, settings.NotifyMode))

	if checkOnStart && settings.Configured() {
		go executor.RunCheck(ctx, "startup")
	}

	// Setup API router
	router := api.NewRouter(cfg, store, hub, executor, scheduler, dispatcher)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Control API listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("control API failed: %w", err)
		}
	}

	log.Println("Shutting down agent...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Control API forced to shutdown: %v", err)
	}

	events.Info("Agent stopped")
	log.Println("Agent exited")
	return nil
}

func displayURL(u string) string {
	if u == "" {
		return "<not set>"
	}
	return u
}
