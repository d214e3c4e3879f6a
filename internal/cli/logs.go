package cli

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/eventlog"
	"github.com/fuomag9/apitray/internal/style"
)

var (
	logLines  int
	logFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print or follow the event log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		lines, err := eventlog.Tail(cfg.LogPath, logLines)
		if err != nil {
			return err
		}
		if len(lines) == 0 && !logFollow {
			fmt.Fprintln(out, style.DimText.Render("No log entries yet at "+cfg.LogPath))
			return nil
		}
		for _, line := range lines {
			printLogLine(out, line)
		}

		if !logFollow {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return eventlog.Follow(ctx, cfg.LogPath, eventlog.Size(cfg.LogPath), func(line string) {
			printLogLine(out, line)
		})
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", 20, "Number of trailing lines to print")
	logsCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Keep printing new lines as they are written")
	rootCmd.AddCommand(logsCmd)
}

// printLogLine colors the level tag of an event-log line
func printLogLine(w io.Writer, line string) {
	switch {
	case strings.Contains(line, "[WARNING]"):
		line = strings.Replace(line, "[WARNING]", style.LevelWarning.Render("[WARNING]"), 1)
	case strings.Contains(line, "[INFO]"):
		line = strings.Replace(line, "[INFO]", style.LevelInfo.Render("[INFO]"), 1)
	}
	fmt.Fprintln(w, line)
}
