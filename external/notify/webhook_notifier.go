package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foxseedlab/rokuon/internal/notify"
)

type webhookPayload struct {
	Kind      string               `json:"kind"`
	Notice    *notify.Notice       `json:"notice,omitempty"`
	Alert     *notify.MeetingAlert `json:"alert,omitempty"`
	Indicator *notify.Indicator    `json:"indicator,omitempty"`
	SentAt    time.Time            `json:"sent_at"`
}

// WebhookNotifier posts notices as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (s *WebhookNotifier) Notify(ctx context.Context, n notify.Notice) {
	s.post(ctx, webhookPayload{Kind: "notice", Notice: &n})
}

func (s *WebhookNotifier) PresentMeetingAlert(ctx context.Context, alert notify.MeetingAlert, _ func()) {
	s.post(ctx, webhookPayload{Kind: "meeting_alert", Alert: &alert})
}

func (s *WebhookNotifier) SetIndicator(ctx context.Context, indicator notify.Indicator) {
	s.post(ctx, webhookPayload{Kind: "indicator", Indicator: &indicator})
}

func (s *WebhookNotifier) post(ctx context.Context, payload webhookPayload) {
	payload.SentAt = time.Now().UTC()
	if err := s.send(ctx, payload); err != nil {
		logSinkError("webhook", err)
	}
}

func (s *WebhookNotifier) send(ctx context.Context, payload webhookPayload) error {
	if s.webhookURL == "" {
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
