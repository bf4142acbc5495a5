package host

import (
	"context"
	"log/slog"
	"time"

	"github.com/foxseedlab/rokuon/internal/repository"
)

const (
	journalQueueSize    = 128
	journalWriteTimeout = 5 * time.Second
)

// journal writes recording transitions to the repository from a background
// worker. record and close must be called from the dispatch loop.
type journal struct {
	repo  repository.Repository
	queue chan repository.InsertRecordingEventInput
	done  chan struct{}
}

func newJournal(repo repository.Repository) *journal {
	j := &journal{
		repo:  repo,
		queue: make(chan repository.InsertRecordingEventInput, journalQueueSize),
		done:  make(chan struct{}),
	}
	go j.run()
	return j
}

func (j *journal) record(recordingID string, kind repository.RecordingEventKind, title, detail string, at time.Time) {
	in := repository.InsertRecordingEventInput{
		RecordingID: recordingID,
		Kind:        kind,
		Title:       title,
		Detail:      detail,
		OccurredAt:  at,
	}
	select {
	case j.queue <- in:
	default:
		slog.Warn("journal queue full; dropping event", "recording_id", recordingID, "kind", kind)
	}
}

func (j *journal) run() {
	defer close(j.done)
	for in := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
		if err := j.repo.InsertRecordingEvent(ctx, in); err != nil {
			slog.Error("failed to journal recording event", "recording_id", in.RecordingID, "kind", in.Kind, "error", err)
		}
		cancel()
	}
}

func (j *journal) close() {
	close(j.queue)
	<-j.done
}
