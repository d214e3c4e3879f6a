package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fuomag9/apitray/internal/config"
	"github.com/fuomag9/apitray/internal/monitor"
	"github.com/fuomag9/apitray/internal/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the endpoint settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings (the key is masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := config.NewStore(cfg.SettingsPath)
		settings, err := store.Load()
		if err != nil {
			return err
		}
		fmt.Println(renderSettings(store.Path(), settings.Normalize()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <url|key|interval|mode> <value>",
	Short: "Change one setting",
	Long: `Change one setting in the settings file.

  url       endpoint to probe; "" clears it
  key       bearer token sent with each probe; "" clears it
  interval  seconds between checks (minimum 5)
  mode      notify on: all, fail or off

A running agent picks the change up on its next check.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"url", "key", "interval", "mode"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if configRemote {
			return setSettingViaAgent(args[0], args[1])
		}

		store := config.NewStore(cfg.SettingsPath)
		guard := monitor.NewURLGuard(cfg.AllowPrivateIPs)

		settings, err := setSetting(store, guard, args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Println(style.SuccessBox.Render("Settings saved"))
		fmt.Println(renderSettings(store.Path(), settings))
		return nil
	},
}

var configRemote bool

func init() {
	configSetCmd.Flags().BoolVar(&configRemote, "remote", false, "Apply through the running agent so a new interval takes effect immediately")
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// setSetting validates value and saves it under field
func setSetting(store *config.Store, guard *monitor.URLGuard, field, value string) (config.Settings, error) {
	value = strings.TrimSpace(value)

	var apply func(*config.Settings) error
	switch strings.ToLower(field) {
	case "url":
		if err := guard.ValidateURL(value); err != nil {
			return config.Settings{}, err
		}
		apply = func(s *config.Settings) error {
			s.APIURL = value
			return nil
		}
	case "key":
		apply = func(s *config.Settings) error {
			s.APIKey = value
			return nil
		}
	case "interval":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			return config.Settings{}, fmt.Errorf("interval must be a positive number of seconds, got %q", value)
		}
		apply = func(s *config.Settings) error {
			s.IntervalSeconds = seconds
			return nil
		}
	case "mode":
		mode, err := config.ParseNotifyMode(value)
		if err != nil {
			return config.Settings{}, err
		}
		apply = func(s *config.Settings) error {
			s.NotifyMode = mode
			return nil
		}
	default:
		return config.Settings{}, fmt.Errorf("unknown setting %q (want url, key, interval or mode)", field)
	}

	return store.Update(func(s *config.Settings) error {
		if err := apply(s); err != nil {
			return err
		}
		*s = s.Normalize()
		return nil
	})
}

// settingFields maps CLI field names to control API fields
var settingFields = map[string]string{
	"url":      "api_url",
	"key":      "api_key",
	"interval": "interval_seconds",
	"mode":     "notify_mode",
}

// remoteUpdate builds the PUT /api/settings body for one field
func remoteUpdate(field, value string) (map[string]interface{}, error) {
	name, ok := settingFields[strings.ToLower(field)]
	if !ok {
		return nil, fmt.Errorf("unknown setting %q (want url, key, interval or mode)", field)
	}

	value = strings.TrimSpace(value)
	if name != "interval_seconds" {
		return map[string]interface{}{name: value}, nil
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("interval must be a positive number of seconds, got %q", value)
	}
	return map[string]interface{}{name: seconds}, nil
}

func setSettingViaAgent(field, value string) error {
	update, err := remoteUpdate(field, value)
	if err != nil {
		return err
	}

	saved, err := agent.UpdateSettings(update)
	if err != nil {
		return fmt.Errorf("agent rejected update: %w", err)
	}

	fmt.Println(style.SuccessBox.Render("Settings saved by the agent"))
	fmt.Println(renderSettings(cfg.SettingsPath, config.Settings{
		APIURL:          saved.APIURL,
		APIKey:          saved.APIKey,
		IntervalSeconds: saved.IntervalSeconds,
		NotifyMode:      config.NotifyMode(saved.NotifyMode),
	}))
	return nil
}

func renderSettings(path string, s config.Settings) string {
	var b strings.Builder

	kvLine := func(k, v string) {
		b.WriteString(style.Key.Render(k))
		b.WriteString(style.Val.Render(v))
		b.WriteString("\n")
	}

	kvLine("URL", displayURL(s.APIURL))
	key := s.MaskedKey()
	if key == "" {
		key = "<not set>"
	}
	kvLine("Key", key)
	kvLine("Interval", fmt.Sprintf("%ds", s.IntervalSeconds))
	kvLine("Notify", string(s.NotifyMode))
	b.WriteString(style.DimText.Render(path))

	return style.CardStyle.Render(b.String())
}
