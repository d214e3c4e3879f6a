package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds agent configuration read from the environment
type Config struct {
	SettingsPath    string
	LogPath         string
	ListenAddr      string
	Secret          string
	SecretPath      string
	Environment     string
	CORSOrigins     []string
	AllowPrivateIPs bool
	EnvFile         string
	NotifiersFile   string
	Notifiers       []NotifierConfig
}

// NotifierConfig describes one notification target
type NotifierConfig struct {
	Type   string                 `yaml:"type"` // desktop, ntfy, webhook, discord
	Name   string                 `yaml:"name"`
	Config map[string]interface{} `yaml:"config"` // provider-specific settings
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	home := homeDir()

	// Variables already set in the environment win over the file
	envFile := getEnv("APITRAY_ENV_FILE", filepath.Join(home, ".api_tray.env"))
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	env := getEnv("ENVIRONMENT", "production")

	cfg := &Config{
		SettingsPath:    getEnv("APITRAY_CONFIG", filepath.Join(home, ".api_tray_config.json")),
		LogPath:         getEnv("APITRAY_LOG", defaultLogPath(home)),
		ListenAddr:      getEnv("APITRAY_LISTEN", "127.0.0.1:7465"),
		SecretPath:      getEnv("APITRAY_SECRET_FILE", filepath.Join(home, ".api_tray_secret")),
		Environment:     env,
		CORSOrigins:     loadCORSOrigins(env),
		AllowPrivateIPs: getEnvBool("ALLOW_PRIVATE_IPS", true),
		EnvFile:         envFile,
		NotifiersFile:   os.Getenv("APITRAY_NOTIFIERS_FILE"),
		Notifiers:       loadNotifiers(),
	}

	if cfg.NotifiersFile != "" {
		extra, err := LoadNotifierFile(cfg.NotifiersFile)
		if err != nil {
			return nil, err
		}
		cfg.Notifiers = append(cfg.Notifiers, extra...)
	}

	secret, err := loadSecret(cfg.SecretPath)
	if err != nil {
		return nil, err
	}
	cfg.Secret = secret

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("APITRAY_SECRET must be at least 16 characters long")
	}

	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("invalid APITRAY_LISTEN address %q: %w", c.ListenAddr, err)
	}

	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin must be configured")
	}

	for _, n := range c.Notifiers {
		if n.Type == "" {
			return fmt.Errorf("notifier %q has no type", n.Name)
		}
	}

	return nil
}

func defaultLogPath(home string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "api_test_tray.log")
	}
	return filepath.Join(home, "api_test_tray.log")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("WARNING: cannot determine home directory, using current directory: %v", err)
		return "."
	}
	return home
}

// loadSecret returns APITRAY_SECRET, or the secret stored at path.
// A new random secret is generated and stored when neither exists.
func loadSecret(path string) (string, error) {
	if secret := os.Getenv("APITRAY_SECRET"); secret != "" {
		return secret, nil
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if secret := strings.TrimSpace(string(data)); secret != "" {
			return secret, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	secret, err := generateRandomSecret()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to store secret: %w", err)
	}
	log.Printf("Generated control secret at %s", path)

	return secret, nil
}

func loadCORSOrigins(env string) []string {
	if appURL := getAppURL(); appURL != "" {
		return []string{appURL}
	}

	if env == "development" {
		return []string{"http://localhost:3000", "http://localhost:8080"}
	}

	return []string{"http://localhost:7465", "http://127.0.0.1:7465"}
}

// loadNotifiers builds the notification targets from the environment.
// Desktop notifications are on unless DESKTOP_NOTIFY=false.
func loadNotifiers() []NotifierConfig {
	var notifiers []NotifierConfig

	if getEnvBool("DESKTOP_NOTIFY", true) {
		notifiers = append(notifiers, NotifierConfig{
			Type:   "desktop",
			Name:   "Desktop",
			Config: map[string]interface{}{"app_icon": getEnv("DESKTOP_ICON", "")},
		})
	}

	if topic := os.Getenv("NTFY_TOPIC"); topic != "" {
		notifiers = append(notifiers, NotifierConfig{
			Type: "ntfy",
			Name: "ntfy",
			Config: map[string]interface{}{
				"server_url": getEnv("NTFY_SERVER_URL", "https://ntfy.sh"),
				"topic":      topic,
				"priority":   float64(getEnvInt("NTFY_PRIORITY", 0)),
				"username":   os.Getenv("NTFY_USERNAME"),
				"password":   os.Getenv("NTFY_PASSWORD"),
				"token":      os.Getenv("NTFY_TOKEN"),
			},
		})
	}

	if url := os.Getenv("WEBHOOK_URL"); url != "" {
		notifiers = append(notifiers, NotifierConfig{
			Type: "webhook",
			Name: "Webhook",
			Config: map[string]interface{}{
				"webhook_url": url,
				"method":      getEnv("WEBHOOK_METHOD", "POST"),
			},
		})
	}

	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		notifiers = append(notifiers, NotifierConfig{
			Type:   "discord",
			Name:   "Discord",
			Config: map[string]interface{}{"webhook_url": url},
		})
	}

	return notifiers
}

// LoadNotifierFile reads extra notification targets from a YAML list:
//
//	- type: ntfy
//	  name: phone
//	  config:
//	    topic: my-api
//	    priority: 5
func LoadNotifierFile(path string) ([]NotifierConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notifiers file: %w", err)
	}

	var notifiers []NotifierConfig
	if err := yaml.Unmarshal(data, &notifiers); err != nil {
		return nil, fmt.Errorf("failed to parse notifiers file %s: %w", path, err)
	}

	for i := range notifiers {
		if notifiers[i].Name == "" {
			notifiers[i].Name = notifiers[i].Type
		}
		notifiers[i].Config = jsonNumbers(notifiers[i].Config)
	}

	return notifiers, nil
}

// jsonNumbers converts YAML integers to float64 so provider configs look
// the same whether they came from YAML or JSON
func jsonNumbers(m map[string]interface{}) map[string]interface{} {
	for k, v := range m {
		switch n := v.(type) {
		case int:
			m[k] = float64(n)
		case int64:
			m[k] = float64(n)
		case uint64:
			m[k] = float64(n)
		}
	}
	return m
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func generateRandomSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func getAppURL() string {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		return ""
	}
	return strings.TrimRight(appURL, "/")
}
