package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/monitor"
	"github.com/fuomag9/apitray/internal/style"
)

var checkRemote bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the endpoint once and print the result",
	Long: `Probe the configured endpoint once and print the result. Exits 1 when the
endpoint is down. With --remote the running agent performs the check, which
updates its status and may send a notification.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkRemote {
			return checkViaAgent()
		}
		return checkLocal(cmd.Context(), config.NewStore(cfg.SettingsPath), monitor.NewHTTPProber())
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "Ask the running agent to check now")
	rootCmd.AddCommand(checkCmd)
}

func checkLocal(ctx context.Context, store *config.Store, prober monitor.Prober) error {
	settings, err := store.Load()
	if err != nil {
		return err
	}

	if !settings.Configured() {
		fmt.Println(style.Warning.Render("No API URL configured. Set one with: apitray config set url <url>"))
	}

	outcome := monitor.Check(ctx, prober, settings, monitor.StatusPending)
	printOutcome(outcome.Indicator.Color, outcome.Indicator.Tooltip, outcome.LogLine, outcome.Result.Ping)

	if outcome.Status != monitor.StatusUp {
		return ErrEndpointDown
	}
	return nil
}

func checkViaAgent() error {
	outcome, err := agent.Check()
	if err != nil {
		return fmt.Errorf("agent check failed: %w", err)
	}

	printOutcome(outcome.Indicator.Color, outcome.Indicator.Tooltip, outcome.LogLine, outcome.Result.Ping)
	if outcome.Notification != "" && outcome.Notification != monitor.NotifyNone.String() {
		fmt.Println(style.DimText.Render("  notification sent: " + outcome.Notification))
	}

	if outcome.Status != monitor.StatusUp.String() {
		return ErrEndpointDown
	}
	return nil
}

func printOutcome(color, tooltip, logLine string, ping int) {
	fmt.Printf("%s %s\n", style.IndicatorDot(color), style.Bold.Render(tooltip))
	fmt.Printf("  %s %s\n", style.DimText.Render(logLine), style.DimText.Render(fmt.Sprintf("(%dms)", ping)))
}
