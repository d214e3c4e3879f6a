package api

import (
	"fmt"
	"net/http"

	"github.com/fuomag9/apitray/internal/monitor"
)

// HandleStatusBadge renders the endpoint status as an SVG badge
func HandleStatusBadge(executor *monitor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := executor.Snapshot()

		statusText, color := "unknown", "gray"
		switch {
		case !snap.Configured:
			statusText = "not configured"
		case snap.Status == monitor.StatusUp:
			statusText, color = "up", "brightgreen"
		case snap.Status == monitor.StatusDown:
			statusText, color = "down", "red"
		}

		writeBadge(w, "api", statusText, color)
	}
}

// HandlePingBadge renders the last response time as an SVG badge
func HandlePingBadge(executor *monitor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := executor.Snapshot()

		pingText, color := "N/A", "gray"
		if snap.Last != nil && snap.Last.Result.OK {
			ping := snap.Last.Result.Ping
			pingText = fmt.Sprintf("%dms", ping)
			switch {
			case ping < 100:
				color = "brightgreen"
			case ping < 300:
				color = "green"
			case ping < 500:
				color = "yellow"
			case ping < 1000:
				color = "orange"
			default:
				color = "red"
			}
		}

		writeBadge(w, "response time", pingText, color)
	}
}

func writeBadge(w http.ResponseWriter, label, message, color string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write([]byte(generateBadgeSVG(label, message, color)))
}

var badgeColors = map[string]string{
	"brightgreen": "#4c1",
	"green":       "#97ca00",
	"yellow":      "#dfb317",
	"orange":      "#fe7d37",
	"red":         "#e05d44",
	"gray":        "#555",
}

// generateBadgeSVG generates a flat two-part badge
func generateBadgeSVG(label, message, color string) string {
	hexColor, ok := badgeColors[color]
	if !ok {
		hexColor = badgeColors["gray"]
	}

	labelWidth := len(label)*6 + 10
	messageWidth := len(message)*6 + 10
	totalWidth := labelWidth + messageWidth

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="20" role="img" aria-label="%[5]s: %[7]s">
  <clipPath id="r"><rect width="%[1]d" height="20" rx="3"/></clipPath>
  <g clip-path="url(#r)">
    <rect width="%[2]d" height="20" fill="#555"/>
    <rect x="%[2]d" width="%[3]d" height="20" fill="%[4]s"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="11">
    <text x="%[6]d" y="14">%[5]s</text>
    <text x="%[8]d" y="14">%[7]s</text>
  </g>
</svg>`,
		totalWidth, labelWidth, messageWidth, hexColor,
		label, labelWidth/2,
		message, labelWidth+messageWidth/2,
	)
}
