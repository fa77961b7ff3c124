package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSuccessNotification(t *testing.T) {
	received := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		payload := map[string]string{}
		if err := json.NewDecoder(rq.Body).Decode(&payload); err != nil {
			t.Errorf("Unexpected error decoding webhook payload (%v)", err)
		}
		received = payload["text"]
	}))
	defer srv.Close()

	notifier := NewNotifier(srv.URL, zap.NewNop())

	if err := notifier.Success(context.Background(), 2, 3, 45*time.Second); err != nil {
		t.Fatalf("Unexpected error sending notification (%v)", err)
	}

	if !strings.Contains(received, "sync completed (2/3)") {
		t.Errorf("Incorrect notification text: %v", received)
	}
}

func TestFailureNotification(t *testing.T) {
	received := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		payload := map[string]string{}
		json.NewDecoder(rq.Body).Decode(&payload)
		received = payload["text"]
	}))
	defer srv.Close()

	notifier := NewNotifier(srv.URL, zap.NewNop())

	if err := notifier.Failure(context.Background(), []string{"Item List Export"}, "export failed", 30*time.Second); err != nil {
		t.Fatalf("Unexpected error sending notification (%v)", err)
	}

	if !strings.Contains(received, "sync failed (Item List Export)") || !strings.Contains(received, "export failed") {
		t.Errorf("Incorrect notification text: %v", received)
	}
}

func TestNotificationWithWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		http.Error(w, "no_service", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	notifier := NewNotifier(srv.URL, zap.NewNop())

	if err := notifier.Success(context.Background(), 1, 1, time.Second); err == nil {
		t.Errorf("Expected error for webhook failure")
	}
}

func TestDisabledNotifier(t *testing.T) {
	notifier := NewNotifier("", zap.NewNop())

	if notifier.Enabled() {
		t.Errorf("Expected notifier to be disabled without a webhook URL")
	}

	if err := notifier.Success(context.Background(), 1, 1, time.Second); err != nil {
		t.Errorf("Unexpected error from disabled notifier (%v)", err)
	}
}
