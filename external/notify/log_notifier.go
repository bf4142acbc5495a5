package notify

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/rokuon/internal/notify"
)

// LogNotifier writes every notice to the structured log. It is always part of
// the fan-out so headless runs still surface errors.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n notify.Notice) {
	if n.Level == notify.LevelError {
		slog.Error("user notice", "title", n.Title, "body", n.Body)
		return
	}
	slog.Info("user notice", "title", n.Title, "body", n.Body)
}

func (LogNotifier) PresentMeetingAlert(_ context.Context, alert notify.MeetingAlert, _ func()) {
	slog.Info("meeting alert", "window_handle", alert.WindowHandle, "title", alert.Title, "actions", alert.Actions)
}

func (LogNotifier) SetIndicator(_ context.Context, indicator notify.Indicator) {
	slog.Info("indicator changed", "indicator", string(indicator))
}
