package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cienerpi/giftcheck/internal/domain"
)

func newTelegramTestSender(t *testing.T, handler http.HandlerFunc) *TelegramSender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	s := NewTelegramSender("test-token", "@channel")
	s.baseURL = server.URL
	return s
}

func TestTelegramSend(t *testing.T) {
	var path string
	var payload map[string]any
	s := newTelegramTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		io.WriteString(w, `{"ok":true}`)
	})

	msg := domain.Message{
		Title:       "🎁 Lol Pop #7",
		Body:        "Price: 4.5 TON",
		ActionLink:  "https://t.me/nft/LolPop-7",
		PreviewLink: "https://t.me/nft/LolPop-7.gif",
	}
	if err := s.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if path != "/bottest-token/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if payload["chat_id"] != "@channel" {
		t.Errorf("chat_id = %v", payload["chat_id"])
	}
	if payload["parse_mode"] != "Markdown" {
		t.Errorf("parse_mode = %v", payload["parse_mode"])
	}
	text, _ := payload["text"].(string)
	if !strings.HasPrefix(text, "*🎁 Lol Pop #7*\n") {
		t.Errorf("text missing bold title: %q", text)
	}
	if !strings.Contains(text, "(https://t.me/nft/LolPop-7.gif)") {
		t.Errorf("text missing preview link: %q", text)
	}
	if _, ok := payload["reply_markup"]; !ok {
		t.Error("payload missing inline keyboard for the action link")
	}
}

func TestTelegramSendThrottled(t *testing.T) {
	s := newTelegramTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":14}}`)
	})

	err := s.Send(context.Background(), domain.Message{})
	te, ok := domain.AsThrottled(err)
	if !ok {
		t.Fatalf("error = %v; want ThrottledError", err)
	}
	if te.RetryAfter != 14*time.Second {
		t.Errorf("RetryAfter = %v; want 14s", te.RetryAfter)
	}
}

func TestTelegramSendTimeout(t *testing.T) {
	s := newTelegramTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	})
	s.client.Timeout = 10 * time.Millisecond

	err := s.Send(context.Background(), domain.Message{})
	if !errors.Is(err, domain.ErrDeliveryTimeout) {
		t.Fatalf("error = %v; want ErrDeliveryTimeout", err)
	}
}

func TestTelegramSendGenericFault(t *testing.T) {
	s := newTelegramTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request"}`)
	})

	err := s.Send(context.Background(), domain.Message{})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := domain.AsThrottled(err); ok {
		t.Errorf("400 must not map to throttling: %v", err)
	}
	if errors.Is(err, domain.ErrDeliveryTimeout) {
		t.Errorf("400 must not map to timeout: %v", err)
	}
}
