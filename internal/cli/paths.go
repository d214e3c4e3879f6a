package cli

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/style"
)

var pathsOpen string

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the settings and log file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s%s\n", style.Key.Render("Config"), style.Val.Render(cfg.SettingsPath))
		fmt.Printf("%s%s\n", style.Key.Render("Log"), style.Val.Render(cfg.LogPath))

		switch pathsOpen {
		case "":
			return nil
		case "log":
			return openPath(cfg.LogPath)
		case "config":
			return openPath(cfg.SettingsPath)
		default:
			return fmt.Errorf("--open takes log or config, got %q", pathsOpen)
		}
	},
}

func init() {
	pathsCmd.Flags().StringVar(&pathsOpen, "open", "", "Open the log or config file with the system opener")
	pathsCmd.Flags().Lookup("open").NoOptDefVal = "log"
	rootCmd.AddCommand(pathsCmd)
}

// openerCommand returns the platform's "open this file" command
func openerCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

func openPath(path string) error {
	if err := openerCommand(runtime.GOOS, path).Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
