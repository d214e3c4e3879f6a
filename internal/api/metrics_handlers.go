package api

import (
	"fmt"
	"net/http"

	"github.com/fuomag9/apitray/internal/monitor"
	"github.com/fuomag9/apitray/internal/websocket"
)

// HandlePrometheusMetrics exports the endpoint state in Prometheus text format
func HandlePrometheusMetrics(executor *monitor.Executor, scheduler Scheduler, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		snap := executor.Snapshot()

		up := 0
		if snap.Status == monitor.StatusUp {
			up = 1
		}
		known := 1
		if snap.Status == monitor.StatusPending {
			known = 0
		}
		configured := 0
		if snap.Configured {
			configured = 1
		}

		gauge(w, "apitray_endpoint_up", "Endpoint status (1 = up, 0 = down or unknown)", up)
		gauge(w, "apitray_endpoint_status_known", "Whether at least one check has completed", known)
		gauge(w, "apitray_endpoint_configured", "Whether an endpoint URL is configured", configured)

		if snap.Last != nil {
			gauge(w, "apitray_endpoint_ping_ms", "Response time of the last check in milliseconds", snap.Last.Result.Ping)
			gauge(w, "apitray_endpoint_status_code", "HTTP status of the last check (0 = no response)", snap.Last.Result.StatusCode)
			fmt.Fprintln(w, "# HELP apitray_last_check_timestamp_seconds Unix timestamp of the last check")
			fmt.Fprintln(w, "# TYPE apitray_last_check_timestamp_seconds gauge")
			fmt.Fprintf(w, "apitray_last_check_timestamp_seconds %d\n", snap.Last.CheckedAt.Unix())
		}

		gauge(w, "apitray_check_interval_seconds", "Effective check interval", scheduler.Interval())
		gauge(w, "apitray_websocket_clients", "Connected websocket clients", hub.ClientCount())
	}
}

func gauge(w http.ResponseWriter, name, help string, value int) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s gauge\n", name)
	fmt.Fprintf(w, "%s %d\n", name, value)
}
