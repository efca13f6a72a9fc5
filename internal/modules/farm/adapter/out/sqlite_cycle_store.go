package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focusfarm/internal/modules/farm/domain"
	"focusfarm/internal/platform/tx"
)

type SQLiteCycleStore struct {
	db *sql.DB
}

func NewSQLiteCycleStore(db *sql.DB) *SQLiteCycleStore {
	return &SQLiteCycleStore{db: db}
}

func (s *SQLiteCycleStore) Insert(ctx context.Context, c domain.Cycle) error {
	const stmt = `
INSERT INTO cycles (id, start_time, end_time, cycle_type, total_sessions, total_duration_ms, chickens, cats, dogs, reason, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		c.ID,
		c.Start.UnixMilli(),
		c.End.UnixMilli(),
		c.CycleType,
		c.TotalSessions,
		c.TotalDuration.Milliseconds(),
		c.Counts.Chickens,
		c.Counts.Cats,
		c.Counts.Dogs,
		c.Reason,
		c.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

func (s *SQLiteCycleStore) Recent(ctx context.Context, limit int) ([]domain.Cycle, error) {
	const query = `
SELECT id, start_time, end_time, cycle_type, total_sessions, total_duration_ms, chickens, cats, dogs, reason, created_at
FROM cycles
ORDER BY created_at DESC, id
LIMIT ?`
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []domain.Cycle
	for rows.Next() {
		var (
			c                                     domain.Cycle
			startMS, endMS, durationMS, createdMS int64
		)
		err := rows.Scan(
			&c.ID, &startMS, &endMS, &c.CycleType, &c.TotalSessions, &durationMS,
			&c.Counts.Chickens, &c.Counts.Cats, &c.Counts.Dogs, &c.Reason, &createdMS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		c.Start = time.UnixMilli(startMS).UTC()
		c.End = time.UnixMilli(endMS).UTC()
		c.TotalDuration = time.Duration(durationMS) * time.Millisecond
		c.CreatedAt = time.UnixMilli(createdMS).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return out, nil
}
