package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/auth"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the control API",
	Long: `Print a bearer token for the control API, signed with the agent secret.
Use it from scripts or a tray front-end:

  curl -H "Authorization: Bearer $(apitray token)" http://127.0.0.1:7465/api/status`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := auth.IssueToken(cfg.Secret, "token", tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTTL, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
