package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focusfarm/internal/modules/farm/domain"
	"focusfarm/internal/platform/tx"
)

const resultSuccess = "success"

// SQLiteRepository reads the sessions and animals written by the timer.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Totals(ctx context.Context, since time.Time) (domain.SessionTotals, error) {
	const query = `
SELECT
  COUNT(*),
  COALESCE(SUM(CASE WHEN result = ? THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN result != ? THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN result = ? THEN duration_ms ELSE 0 END), 0),
  COALESCE(MAX(CASE WHEN result = ? THEN duration_ms ELSE 0 END), 0)
FROM incubation_sessions
WHERE start_time >= ?`
	var sinceMS int64
	if !since.IsZero() {
		sinceMS = since.UnixMilli()
	}
	var (
		totals             domain.SessionTotals
		totalMS, longestMS int64
	)
	err := tx.From(ctx, r.db).QueryRowContext(ctx, query, resultSuccess, resultSuccess, resultSuccess, resultSuccess, sinceMS).
		Scan(&totals.Sessions, &totals.Successful, &totals.Interrupted, &totalMS, &longestMS)
	if err != nil {
		return domain.SessionTotals{}, fmt.Errorf("query session totals: %w", err)
	}
	totals.TotalFocus = time.Duration(totalMS) * time.Millisecond
	totals.Longest = time.Duration(longestMS) * time.Millisecond
	return totals, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	const query = `
SELECT id, start_time, end_time, duration_ms, result, COALESCE(interruption_reason, '')
FROM incubation_sessions
ORDER BY start_time DESC, id
LIMIT ?`
	rows, err := tx.From(ctx, r.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionSummary
	for rows.Next() {
		var (
			s                          domain.SessionSummary
			startMS, endMS, durationMS int64
		)
		if err := rows.Scan(&s.ID, &startMS, &endMS, &durationMS, &s.Result, &s.Reason); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartTime = time.UnixMilli(startMS).UTC()
		s.EndTime = time.UnixMilli(endMS).UTC()
		s.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Active(ctx context.Context) ([]domain.Animal, error) {
	const query = `
SELECT id, type, created_at
FROM animals
WHERE state = 'active'
ORDER BY created_at DESC, id`
	rows, err := tx.From(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query animals: %w", err)
	}
	defer rows.Close()

	var out []domain.Animal
	for rows.Next() {
		var (
			a         domain.Animal
			createdMS int64
		)
		if err := rows.Scan(&a.ID, &a.Type, &createdMS); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		a.Family = domain.FamilyOf(a.Type)
		a.CreatedAt = time.UnixMilli(createdMS).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate animals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := tx.From(ctx, r.db).ExecContext(ctx, `DELETE FROM animals`); err != nil {
		return fmt.Errorf("delete animals: %w", err)
	}
	return nil
}
