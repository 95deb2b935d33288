package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// TelegramSender delivers alerts to a Telegram channel via the Bot API.
type TelegramSender struct {
	token   string
	chatID  string
	client  *http.Client
	baseURL string
}

// NewTelegramSender creates a TelegramSender for the given bot token and chat
// ID. It uses a default HTTP client with a 10-second timeout.
func NewTelegramSender(token, chatID string) *TelegramSender {
	return &TelegramSender{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.telegram.org",
	}
}

// telegramError is the Bot API error envelope. On 429 the parameters carry the
// mandated wait in seconds.
type telegramError struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// Send posts the message with sendMessage. The title is rendered in bold, the
// preview link is appended so Telegram renders the listing's animation, and
// the action link becomes an inline button.
func (t *TelegramSender) Send(ctx context.Context, msg domain.Message) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	text := fmt.Sprintf("*%s*\n%s", msg.Title, msg.Body)
	if msg.PreviewLink != "" {
		text += fmt.Sprintf("\n\n(%s)", msg.PreviewLink)
	}

	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if msg.ActionLink != "" {
		payload["reply_markup"] = map[string]any{
			"inline_keyboard": [][]map[string]string{
				{{"text": "Open listing", "url": msg.ActionLink}},
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("telegram: %w: %v", domain.ErrDeliveryTimeout, err)
		}
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusTooManyRequests {
		var apiErr telegramError
		retryAfter := 1
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Parameters.RetryAfter > 0 {
			retryAfter = apiErr.Parameters.RetryAfter
		}
		return fmt.Errorf("telegram: %w",
			&domain.ThrottledError{RetryAfter: time.Duration(retryAfter) * time.Second})
	}

	return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return "telegram"
}

// isTimeout reports whether err is a client-side timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
