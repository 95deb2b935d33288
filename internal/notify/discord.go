package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// DiscordSender delivers alerts via a Discord webhook. It is an optional
// second channel next to Telegram.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL. It uses a
// default HTTP client with a 10-second timeout.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message to the webhook. The title is rendered in bold using
// Discord markdown; the action link is appended since webhooks have no
// buttons.
func (d *DiscordSender) Send(ctx context.Context, msg domain.Message) error {
	content := fmt.Sprintf("**%s**\n%s", msg.Title, msg.Body)
	if msg.ActionLink != "" {
		content += "\n" + msg.ActionLink
	}

	payload := map[string]string{
		"content": content,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("discord: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("discord: %w: %v", domain.ErrDeliveryTimeout, err)
		}
		return fmt.Errorf("discord: send request: %w", err)
	}
	defer resp.Body.Close()

	// Discord returns 204 No Content on success.
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests {
		// Webhook rate limits carry retry_after in fractional seconds.
		var rl struct {
			RetryAfter float64 `json:"retry_after"`
		}
		retryAfter := time.Second
		if json.Unmarshal(respBody, &rl) == nil && rl.RetryAfter > 0 {
			retryAfter = time.Duration(rl.RetryAfter * float64(time.Second))
		}
		return fmt.Errorf("discord: %w", &domain.ThrottledError{RetryAfter: retryAfter})
	}

	return fmt.Errorf("discord: unexpected status %d: %s", resp.StatusCode, string(respBody))
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string {
	return "discord"
}
