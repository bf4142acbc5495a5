package repository

import (
	"context"
	"time"
)

type InsertRecordingEventInput struct {
	RecordingID string
	Kind        RecordingEventKind
	Title       string
	Detail      string
	OccurredAt  time.Time
}

// Repository is an append-only journal of recording transitions. It is
// write-only from the host's point of view; lifecycle state never reads it back.
type Repository interface {
	InsertRecordingEvent(ctx context.Context, input InsertRecordingEventInput) error
	ListRecordingEvents(ctx context.Context, recordingID string) ([]RecordingEvent, error)
	Close()
}

// NopRepository is used when no database is configured.
type NopRepository struct{}

func (NopRepository) InsertRecordingEvent(context.Context, InsertRecordingEventInput) error {
	return nil
}

func (NopRepository) ListRecordingEvents(context.Context, string) ([]RecordingEvent, error) {
	return nil, nil
}

func (NopRepository) Close() {}
