package repository

import (
	"context"

	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertRecordingEvent(ctx context.Context, input repository.InsertRecordingEventInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recording_events (recording_id, kind, title, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		input.RecordingID, string(input.Kind), input.Title, input.Detail, input.OccurredAt)
	return err
}

func (r *PostgresRepository) ListRecordingEvents(ctx context.Context, recordingID string) ([]repository.RecordingEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, recording_id, kind::text, title, detail, occurred_at, created_at
		 FROM recording_events WHERE recording_id = $1 ORDER BY occurred_at ASC, created_at ASC`,
		recordingID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.RecordingEvent, error) {
		var ev repository.RecordingEvent
		var kind string
		err := row.Scan(&ev.ID, &ev.RecordingID, &kind, &ev.Title, &ev.Detail, &ev.OccurredAt, &ev.CreatedAt)
		ev.Kind = repository.RecordingEventKind(kind)
		return ev, err
	})
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}
