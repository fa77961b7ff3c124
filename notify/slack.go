// Package notify sends one-line Slack webhook notifications with the outcome of
// a sync run. The notifier is a no-op when no webhook URL is configured.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const timeout = 10 * time.Second

type Notifier struct {
	webhook string
	client  *http.Client
	logger  *zap.Logger
}

type message struct {
	Text string `json:"text"`
}

func NewNotifier(webhook string, logger *zap.Logger) *Notifier {
	if strings.TrimSpace(webhook) == "" {
		logger.Info("no Slack webhook configured - notifications disabled")
	}

	return &Notifier{
		webhook: webhook,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (n *Notifier) Enabled() bool {
	return strings.TrimSpace(n.webhook) != ""
}

// Success sends the one-line 'sync completed' summary.
func (n *Notifier) Success(ctx context.Context, succeeded, total int, took time.Duration) error {
	text := fmt.Sprintf("✅ sync completed (%v/%v) in %v - %s",
		succeeded,
		total,
		took.Round(time.Second),
		time.Now().Format("2006-01-02 15:04:05"))

	return n.send(ctx, text)
}

// Failure sends the one-line 'sync failed' summary, naming the failed reports.
func (n *Notifier) Failure(ctx context.Context, failed []string, reason string, took time.Duration) error {
	text := fmt.Sprintf("❌ sync failed - %s", time.Now().Format("2006-01-02 15:04:05"))

	if len(failed) > 0 {
		text = fmt.Sprintf("❌ sync failed (%s) - %s", strings.Join(failed, ", "), time.Now().Format("2006-01-02 15:04:05"))
	}

	if reason != "" {
		if len(reason) > 100 {
			reason = reason[:100]
		}
		text += " | " + reason
	}

	return n.send(ctx, text)
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(message{Text: text})
	if err != nil {
		return err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhook, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	rq.Header.Set("Content-Type", "application/json")

	response, err := n.client.Do(rq)
	if err != nil {
		return fmt.Errorf("unable to send Slack notification (%v)", err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return fmt.Errorf("slack webhook returned %v (%s)", response.StatusCode, string(body))
	}

	n.logger.Debug("sent Slack notification", zap.String("text", text))

	return nil
}
