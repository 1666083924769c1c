package watchdog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-watchdog/pkg/mail"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is the structured state-change notification handed to external
// sinks.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(title, message string, severity Severity, target string) Event {
	return Event{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		Target:    target,
		Timestamp: time.Now(),
	}
}

// Notifier delivers events best-effort. Implementations apply their own
// timeout, swallow every delivery error and log it locally; a failing sink
// must never block or abort monitoring.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type webhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) Notifier {
	return &webhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (n *webhookNotifier) Notify(ctx context.Context, event Event) {
	b, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("failed to encode notification", zap.Error(fmt.Errorf("webhookNotifier.Notify: %w", err)))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(b))
	if err != nil {
		n.logger.Warn("failed to build notification request", zap.Error(fmt.Errorf("webhookNotifier.Notify: %w", err)))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("failed to deliver notification", zap.Error(fmt.Errorf("webhookNotifier.Notify: %w", err)))
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("notification sink rejected event",
			zap.Int("status_code", resp.StatusCode),
			zap.String("event_id", event.ID))
	}
}

// mailNotifier forwards critical events to an SMTP recipient list. Lower
// severities stay on the webhook.
type mailNotifier struct {
	sender mail.Sender
	to     []string
	logger *zap.Logger
}

func NewMailNotifier(sender mail.Sender, to []string, logger *zap.Logger) Notifier {
	return &mailNotifier{sender: sender, to: to, logger: logger}
}

func (n *mailNotifier) Notify(_ context.Context, event Event) {
	if event.Severity != SeverityCritical {
		return
	}
	subject := fmt.Sprintf("[watchdog] %s: %s", event.Severity, event.Title)
	body := fmt.Sprintf("%s\n\ntarget: %s\ntime: %s\nevent: %s\n",
		event.Message, event.Target, event.Timestamp.Format(time.RFC3339), event.ID)
	if err := n.sender.SendAlert(n.to, subject, body); err != nil {
		n.logger.Warn("failed to deliver mail notification", zap.Error(fmt.Errorf("mailNotifier.Notify: %w", err)))
	}
}

type multiNotifier struct {
	sinks []Notifier
}

// NewMultiNotifier fans an event out to every configured sink.
func NewMultiNotifier(sinks ...Notifier) Notifier {
	return &multiNotifier{sinks: sinks}
}

func (n *multiNotifier) Notify(ctx context.Context, event Event) {
	for _, sink := range n.sinks {
		sink.Notify(ctx, event)
	}
}

type nopNotifier struct{}

func NewNopNotifier() Notifier { return nopNotifier{} }

func (nopNotifier) Notify(context.Context, Event) {}
