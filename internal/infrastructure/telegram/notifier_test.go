package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsEnricher/internal/config"
)

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText, gotMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		gotMode = r.PostForm.Get("parse_mode")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	digest := "News digest\n• snake_case [beta] *rollout (id-1)"
	n := NewNotifier(config.TelegramConfig{BotToken: "123:abc", ChatID: "42", APIBase: server.URL + "/"}, server.Client())
	if err := n.PublishDigest(context.Background(), digest); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotChat != "42" || gotText != digest {
		t.Fatalf("unexpected form chat=%q text=%q", gotChat, gotText)
	}
	if gotMode != "" {
		t.Fatalf("digest must be sent as plain text, got parse_mode %q", gotMode)
	}
}

func TestPublishDigestTruncatesAndReportsErrors(t *testing.T) {
	t.Parallel()

	var gotLen int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotLen = len([]rune(r.PostForm.Get("text")))
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "t", ChatID: "c", APIBase: server.URL}, server.Client())
	err := n.PublishDigest(context.Background(), strings.Repeat("x", 5000))
	if err == nil {
		t.Fatalf("expected error for 400 response")
	}
	if gotLen != maxMessageLength {
		t.Fatalf("expected truncated message of %d runes, got %d", maxMessageLength, gotLen)
	}
}

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.TelegramConfig{}, nil)
	if err := n.PublishDigest(context.Background(), "x"); err == nil {
		t.Fatalf("expected misconfiguration error")
	}
}
