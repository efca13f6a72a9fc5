package out

import (
	"context"
	"database/sql"
	"fmt"

	"focusfarm/internal/modules/timer/domain"
	"focusfarm/internal/platform/tx"
)

type SQLiteFarmStore struct {
	db *sql.DB
}

func NewSQLiteFarmStore(db *sql.DB) *SQLiteFarmStore {
	return &SQLiteFarmStore{db: db}
}

func (s *SQLiteFarmStore) InsertAnimal(ctx context.Context, animal domain.Animal) error {
	const stmt = `
INSERT INTO animals (id, type, state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		animal.ID,
		string(animal.Type),
		animal.State,
		animal.CreatedAt.UnixMilli(),
		animal.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert animal: %w", err)
	}
	return nil
}

func (s *SQLiteFarmStore) ActiveAnimals(ctx context.Context) ([]domain.Animal, error) {
	const query = `
SELECT id, type, state, created_at, updated_at
FROM animals
WHERE state = ?
ORDER BY created_at, id`
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, domain.AnimalStateActive)
	if err != nil {
		return nil, fmt.Errorf("query animals: %w", err)
	}
	defer rows.Close()

	var animals []domain.Animal
	for rows.Next() {
		var (
			a                    domain.Animal
			kind                 string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&a.ID, &kind, &a.State, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		a.Type = domain.AnimalType(kind)
		a.CreatedAt = fromMillis(createdAt)
		a.UpdatedAt = fromMillis(updatedAt)
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate animals: %w", err)
	}
	return animals, nil
}

func (s *SQLiteFarmStore) DeleteAllAnimals(ctx context.Context) error {
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM animals`); err != nil {
		return fmt.Errorf("delete animals: %w", err)
	}
	return nil
}
