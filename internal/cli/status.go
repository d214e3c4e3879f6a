package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"nhooyr.io/websocket"

	"github.com/fuomag9/apitray/internal/client"
	"github.com/fuomag9/apitray/internal/style"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the running agent's view of the endpoint",
	Aliases: []string{"s"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statusWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchStatus(ctx)
		}

		if err := agent.Health(); err != nil {
			return fmt.Errorf("%w (is \"apitray run\" running?)", err)
		}

		status, err := agent.Status()
		if err != nil {
			return fmt.Errorf("failed to fetch status: %w", err)
		}
		fmt.Println(renderStatus(status))
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Stream status changes from the agent")
	rootCmd.AddCommand(statusCmd)
}

func renderStatus(s *client.Status) string {
	var b strings.Builder

	b.WriteString(style.IndicatorDot(s.Indicator.Color))
	b.WriteString(" ")
	b.WriteString(style.Bold.Render(s.Indicator.Tooltip))
	b.WriteString("\n\n")

	kvLine := func(k, v string) {
		b.WriteString(style.Key.Render(k))
		b.WriteString(style.Val.Render(v))
		b.WriteString("\n")
	}

	kvLine("Status", s.Status)
	if !s.Configured {
		kvLine("Endpoint", "not configured")
	}
	kvLine("Interval", fmt.Sprintf("%ds", s.IntervalSeconds))

	if s.Last != nil {
		code := "none"
		if s.Last.StatusCode != 0 {
			code = fmt.Sprintf("%d", s.Last.StatusCode)
		}
		kvLine("HTTP status", code)
		kvLine("Response", fmt.Sprintf("%dms", s.Last.Ping))
		if s.Last.Error != "" {
			kvLine("Error", s.Last.Error)
		}
	}
	if s.LastCheckedAt != nil {
		kvLine("Last check", s.LastCheckedAt.Local().Format(time.DateTime))
	}
	if s.NextCheckAt != nil {
		kvLine("Next check", s.NextCheckAt.Local().Format(time.DateTime))
	}

	return style.Card(s.Indicator.Color).Render(strings.TrimRight(b.String(), "\n"))
}

func watchStatus(ctx context.Context) error {
	wsURL, err := agent.WebSocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to agent: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	fmt.Println(style.DimText.Render("Watching status, Ctrl+C to stop"))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("status stream closed: %w", err)
		}

		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "status" {
			continue
		}

		var snap struct {
			Status    string           `json:"status"`
			Indicator client.Indicator `json:"indicator"`
			Last      *struct {
				LogLine   string    `json:"log_line"`
				CheckedAt time.Time `json:"checked_at"`
			} `json:"last"`
		}
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			continue
		}

		line := fmt.Sprintf("%s %s", style.IndicatorDot(snap.Indicator.Color), snap.Indicator.Tooltip)
		if snap.Last != nil {
			line += style.DimText.Render(fmt.Sprintf("  %s  %s", snap.Last.CheckedAt.Local().Format(time.TimeOnly), snap.Last.LogLine))
		}
		fmt.Println(line)
	}
}
