package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/notification"
	"github.com/fuomag9/apitray/internal/style"
)

var notifyRemote bool

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Inspect notification targets",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification to every configured target",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if notifyRemote {
			if err := agent.TestNotification(); err != nil {
				return err
			}
			fmt.Println(style.SuccessBox.Render("Test notification sent by the agent"))
			return nil
		}

		dispatcher, err := notification.NewDispatcher(cfg.Notifiers)
		if err != nil {
			return err
		}
		if len(dispatcher.Targets()) == 0 {
			return fmt.Errorf("no notification targets configured")
		}

		for _, t := range dispatcher.Targets() {
			fmt.Printf("%s %s %s\n", style.DotUnknown, style.Bold.Render(t.Name), style.DimText.Render(t.Type))
		}

		if err := dispatcher.TestNotification(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(style.SuccessBox.Render(fmt.Sprintf("Test notification sent to %d target(s)", len(dispatcher.Targets()))))
		return nil
	},
}

func init() {
	notifyTestCmd.Flags().BoolVar(&notifyRemote, "remote", false, "Ask the running agent to send it")
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(notifyCmd)
}
