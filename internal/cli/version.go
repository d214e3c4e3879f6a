package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/style"
)

var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(style.Banner.Render("apitray"))
		fmt.Printf("  %s %s\n", style.Key.Render("Version"), style.Val.Render(Version))
		fmt.Printf("  %s %s\n", style.Key.Render("Agent"), style.Val.Render(agent.BaseURL))
		fmt.Printf("  %s %s\n", style.Key.Render("Config"), style.Val.Render(cfg.SettingsPath))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
