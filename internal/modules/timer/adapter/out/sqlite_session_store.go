package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focusfarm/internal/modules/timer/domain"
	"focusfarm/internal/platform/tx"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

func (s *SQLiteSessionStore) InsertSession(ctx context.Context, record domain.Record) error {
	const stmt = `
INSERT INTO incubation_sessions (id, start_time, end_time, duration_ms, result, mode, interruption_reason, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var reason sql.NullString
	if record.Reason != "" {
		reason = sql.NullString{String: string(record.Reason), Valid: true}
	}
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		record.ID,
		record.StartTime.UnixMilli(),
		record.EndTime.UnixMilli(),
		record.Duration.Milliseconds(),
		string(record.Result),
		record.Mode,
		reason,
		record.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
