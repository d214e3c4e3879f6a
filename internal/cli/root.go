package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/client"
	"github.com/fuomag9/apitray/internal/config"
)

// ErrEndpointDown is returned by commands whose check found the endpoint down.
// main exits with status 1 without printing it.
var ErrEndpointDown = errors.New("endpoint is down")

var (
	agentURL string
	cfg      *config.Config
	agent    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "apitray",
	Short: "Keep an eye on one API endpoint",
	Long: `apitray polls a single HTTP endpoint on a fixed interval, tracks whether it
is up or down, and notifies you when that changes.

Run "apitray run" to start the agent, then use the other commands to inspect
and configure it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		base := agentURL
		if base == "" {
			base = "http://" + cfg.ListenAddr
		}
		agent = client.New(base, cfg.Secret)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&agentURL, "agent", os.Getenv("APITRAY_AGENT"), "Agent control API URL (default http://$APITRAY_LISTEN)")
}
