package repository

import "time"

type RecordingEventKind string

const (
	RecordingEventAppended  RecordingEventKind = "appended"
	RecordingEventCompleted RecordingEventKind = "completed"
	RecordingEventFailed    RecordingEventKind = "failed"
	RecordingEventRetried   RecordingEventKind = "retried"
)

// RecordingEvent is one journaled transition of a recording record.
type RecordingEvent struct {
	ID          string
	RecordingID string
	Kind        RecordingEventKind
	Title       string
	Detail      string
	OccurredAt  time.Time
	CreatedAt   time.Time
}
