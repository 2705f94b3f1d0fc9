package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
)

// ListPeople returns all people in insertion order.
func (s *SQLiteStore) ListPeople(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, emoji, created_at FROM people ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Emoji, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}

// UpsertPerson inserts a person or updates the name and emoji of an existing one.
// CreatedAt of an existing person is never changed, so list order is stable.
func (s *SQLiteStore) UpsertPerson(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO people (id, name, emoji, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, emoji = excluded.emoji`,
		person.ID, person.Name, person.Emoji, person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert person: %w", err)
	}

	return nil
}

// DeletePerson removes a person by ID. Deleting an unknown ID is not an error.
func (s *SQLiteStore) DeletePerson(ctx context.Context, personID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", personID); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
