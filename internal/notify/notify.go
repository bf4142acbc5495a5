package notify

import "context"

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a user-visible message.
type Notice struct {
	Level Level  `json:"level"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Indicator is the persistent status badge shown by the desktop chrome.
type Indicator string

const (
	IndicatorNone      Indicator = ""
	IndicatorRecording Indicator = "Recording"
	IndicatorPaused    Indicator = "Paused"
	// IndicatorAttention asks for the user's attention after a failure.
	IndicatorAttention Indicator = "attention"
)

const (
	AlertActionRecord = "Record"
	AlertActionIgnore = "Ignore"
)

// MeetingAlert offers to record a detected meeting.
type MeetingAlert struct {
	WindowHandle string   `json:"window_handle"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Actions      []string `json:"actions"`
}

// Notifier delivers user-visible side effects. Implementations must not
// block the caller on I/O.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
	// PresentMeetingAlert calls accept, from any goroutine, if the user picks
	// the record action or the alert's default action.
	PresentMeetingAlert(ctx context.Context, alert MeetingAlert, accept func())
	SetIndicator(ctx context.Context, indicator Indicator)
}
