package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies GIFTCHECK_* environment variable overrides, and
// returns the final Config. A missing file is not an error; the defaults plus
// environment still have to pass Validate, which the caller should invoke
// after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known GIFTCHECK_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This lets
// operators inject secrets at deploy time without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Tonnel ──
	setStr(&cfg.Tonnel.BaseURL, "GIFTCHECK_TONNEL_BASE_URL")
	setStr(&cfg.Tonnel.MarketURL, "GIFTCHECK_TONNEL_MARKET_URL")
	setStr(&cfg.Tonnel.Auth, "GIFTCHECK_TONNEL_AUTH")
	setStr(&cfg.Tonnel.Auth, "USER_AUTH") // compatibility alias

	// ── Watch ──
	setDuration(&cfg.Watch.PollInterval, "GIFTCHECK_WATCH_POLL_INTERVAL")
	setInt(&cfg.Watch.PageSize, "GIFTCHECK_WATCH_PAGE_SIZE")
	setInt(&cfg.Watch.SeenCapacity, "GIFTCHECK_WATCH_SEEN_CAPACITY")
	setStringSlice(&cfg.Watch.SkipCollections, "GIFTCHECK_WATCH_SKIP_COLLECTIONS")

	// ── Alert ──
	setStr(&cfg.Alert.Policy, "GIFTCHECK_ALERT_POLICY")
	setStr(&cfg.Alert.BackdropPrefix, "GIFTCHECK_ALERT_BACKDROP_PREFIX")
	setFloat64(&cfg.Alert.DiscountRatio, "GIFTCHECK_ALERT_DISCOUNT_RATIO")
	setStr(&cfg.Alert.Style, "GIFTCHECK_ALERT_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "GIFTCHECK_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramToken, "BOT_TOKEN") // compatibility alias
	setStr(&cfg.Notify.TelegramChatID, "GIFTCHECK_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.TelegramChatID, "CHANNEL_ID") // compatibility alias
	setStr(&cfg.Notify.DiscordWebhookURL, "GIFTCHECK_NOTIFY_DISCORD_WEBHOOK_URL")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "GIFTCHECK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
