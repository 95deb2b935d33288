// Package config defines the giftcheck configuration and provides validation
// helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by GIFTCHECK_* environment variables.
type Config struct {
	Tonnel   TonnelConfig `toml:"tonnel"`
	Watch    WatchConfig  `toml:"watch"`
	Alert    AlertConfig  `toml:"alert"`
	Notify   NotifyConfig `toml:"notify"`
	LogLevel string       `toml:"log_level"`
}

// TonnelConfig holds marketplace endpoints and the query credential.
type TonnelConfig struct {
	BaseURL   string `toml:"base_url"`
	MarketURL string `toml:"market_url"`
	Auth      string `toml:"auth"` // user_auth initData, secret
}

// WatchConfig holds polling parameters.
type WatchConfig struct {
	PollInterval    duration `toml:"poll_interval"`
	PageSize        int      `toml:"page_size"`
	SeenCapacity    int      `toml:"seen_capacity"` // 0 = unbounded
	SkipCollections []string `toml:"skip_collections"`
}

// AlertConfig selects the alert policy and message style.
type AlertConfig struct {
	Policy         string  `toml:"policy"`          // all | backdrop | discount
	BackdropPrefix string  `toml:"backdrop_prefix"` // for policy = "backdrop"
	DiscountRatio  float64 `toml:"discount_ratio"`  // for policy = "discount"
	Style          string  `toml:"style"`           // full | compact
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string `toml:"telegram_token"`
	TelegramChatID    string `toml:"telegram_chat_id"`
	DiscordWebhookURL string `toml:"discord_webhook_url"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values. These
// match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Tonnel: TonnelConfig{
			BaseURL:   "https://gifts2.tonnel.network",
			MarketURL: "https://market.tonnel.network",
		},
		Watch: WatchConfig{
			PollInterval: duration{30 * time.Second},
			PageSize:     30,
			SeenCapacity: 0,
		},
		Alert: AlertConfig{
			Policy:        "all",
			DiscountRatio: 0.9,
			Style:         "full",
		},
		LogLevel: "info",
	}
}

// validPolicies enumerates the accepted values for Alert.Policy.
var validPolicies = map[string]bool{
	"all":      true,
	"backdrop": true,
	"discount": true,
}

// validStyles enumerates the accepted values for Alert.Style.
var validStyles = map[string]bool{
	"full":    true,
	"compact": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found. Missing credentials here are
// the only fatal condition in the whole program.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Tonnel
	if c.Tonnel.BaseURL == "" {
		errs = append(errs, "tonnel: base_url must not be empty")
	}
	if c.Tonnel.MarketURL == "" {
		errs = append(errs, "tonnel: market_url must not be empty")
	}
	if c.Tonnel.Auth == "" {
		errs = append(errs, "tonnel: auth is required (copy initData from DevTools)")
	}

	// Watch
	if c.Watch.PollInterval.Duration <= 0 {
		errs = append(errs, "watch: poll_interval must be positive")
	}
	if c.Watch.PageSize < 1 || c.Watch.PageSize > 100 {
		errs = append(errs, fmt.Sprintf("watch: page_size must be 1-100, got %d", c.Watch.PageSize))
	}
	if c.Watch.SeenCapacity < 0 {
		errs = append(errs, "watch: seen_capacity must be >= 0")
	}

	// Alert
	pol := strings.ToLower(c.Alert.Policy)
	if !validPolicies[pol] {
		errs = append(errs, fmt.Sprintf("alert: unknown policy %q (valid: all, backdrop, discount)", c.Alert.Policy))
	}
	if pol == "backdrop" && c.Alert.BackdropPrefix == "" {
		errs = append(errs, "alert: backdrop_prefix is required for the backdrop policy")
	}
	if pol == "discount" && (c.Alert.DiscountRatio <= 0 || c.Alert.DiscountRatio > 1) {
		errs = append(errs, fmt.Sprintf("alert: discount_ratio must be in (0, 1], got %v", c.Alert.DiscountRatio))
	}
	if !validStyles[strings.ToLower(c.Alert.Style)] {
		errs = append(errs, fmt.Sprintf("alert: unknown style %q (valid: full, compact)", c.Alert.Style))
	}

	// Notify — Telegram is the primary channel and is required.
	if c.Notify.TelegramToken == "" {
		errs = append(errs, "notify: telegram_token is required")
	}
	if c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
