// Package client talks to a running apitray agent over its control API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fuomag9/apitray/internal/auth"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	secret     string
}

func New(baseURL, secret string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		secret: secret,
	}
}

type Indicator struct {
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

type ProbeResult struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Ping       int    `json:"ping"`
}

type Status struct {
	Status          string       `json:"status"`
	Indicator       Indicator    `json:"indicator"`
	Configured      bool         `json:"configured"`
	Last            *ProbeResult `json:"last"`
	Transition      string       `json:"transition"`
	LastCheckedAt   *time.Time   `json:"last_checked_at"`
	NextCheckAt     *time.Time   `json:"next_check_at"`
	IntervalSeconds int          `json:"interval_seconds"`
}

type Outcome struct {
	Result       ProbeResult `json:"result"`
	Previous     string      `json:"previous"`
	Status       string      `json:"status"`
	Transition   string      `json:"transition"`
	Notification string      `json:"notification"`
	Level        string      `json:"level"`
	LogLine      string      `json:"log_line"`
	Indicator    Indicator   `json:"indicator"`
	Configured   bool        `json:"configured"`
	CheckedAt    time.Time   `json:"checked_at"`
}

type Settings struct {
	APIURL          string `json:"api_url"`
	APIKey          string `json:"api_key"`
	HasKey          bool   `json:"has_key"`
	IntervalSeconds int    `json:"interval_seconds"`
	NotifyMode      string `json:"notify_mode"`
}

func (c *Client) Health() error {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
	if err != nil {
		return fmt.Errorf("agent not reachable at %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) Status() (*Status, error) {
	var s Status
	if err := c.do(http.MethodGet, "/api/status", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Check() (*Outcome, error) {
	var o Outcome
	if err := c.do(http.MethodPost, "/api/check", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateSettings sends a partial update; fields missing from update are unchanged
func (c *Client) UpdateSettings(update map[string]interface{}) (*Settings, error) {
	var s Settings
	if err := c.do(http.MethodPut, "/api/settings", update, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) TestNotification() error {
	return c.do(http.MethodPost, "/api/notifications/test", nil, nil)
}

// WebSocketURL returns the authenticated status stream URL
func (c *Client) WebSocketURL() (string, error) {
	token, err := auth.IssueToken(c.secret, "cli", auth.DefaultTTL)
	if err != nil {
		return "", err
	}

	u := strings.Replace(c.BaseURL, "http://", "ws://", 1)
	u = strings.Replace(u, "https://", "wss://", 1)
	return u + "/ws?token=" + url.QueryEscape(token), nil
}

func (c *Client) do(method, path string, body, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}

	token, err := auth.IssueToken(c.secret, "cli", auth.DefaultTTL)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
