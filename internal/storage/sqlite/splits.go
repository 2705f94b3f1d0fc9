package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/receiptsplit/internal/models"
)

// ListSplits returns all split assignments keyed by item ID.
// Person IDs keep the order they were stored in.
func (s *SQLiteStore) ListSplits(ctx context.Context) (map[string]models.SplitAssignment, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT item_id, is_all FROM split_assignments")
	if err != nil {
		return nil, fmt.Errorf("failed to list split assignments: %w", err)
	}
	defer rows.Close()

	splits := make(map[string]models.SplitAssignment)
	for rows.Next() {
		var itemID string
		var isAll bool
		if err := rows.Scan(&itemID, &isAll); err != nil {
			return nil, fmt.Errorf("failed to scan split assignment: %w", err)
		}
		splits[itemID] = models.SplitAssignment{ItemID: itemID, PersonIDs: []string{}, IsAll: isAll}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split assignments: %w", err)
	}

	personRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, person_id FROM split_people ORDER BY item_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list split people: %w", err)
	}
	defer personRows.Close()

	for personRows.Next() {
		var itemID, personID string
		if err := personRows.Scan(&itemID, &personID); err != nil {
			return nil, fmt.Errorf("failed to scan split person: %w", err)
		}
		split, ok := splits[itemID]
		if !ok {
			continue
		}
		split.PersonIDs = append(split.PersonIDs, personID)
		splits[itemID] = split
	}
	if err := personRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split people: %w", err)
	}

	return splits, nil
}

// UpsertSplit replaces the assignment for split.ItemID. Duplicate person IDs
// are collapsed, keeping the first occurrence.
func (s *SQLiteStore) UpsertSplit(ctx context.Context, split models.SplitAssignment) error {
	if split.ItemID == "" {
		return fmt.Errorf("split assignment requires an item ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO split_assignments (item_id, is_all) VALUES (?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET is_all = excluded.is_all`,
		split.ItemID, split.IsAll,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert split assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_people WHERE item_id = ?", split.ItemID); err != nil {
		return fmt.Errorf("failed to clear split people: %w", err)
	}

	seen := make(map[string]bool, len(split.PersonIDs))
	position := 0
	for _, personID := range split.PersonIDs {
		if seen[personID] {
			continue
		}
		seen[personID] = true

		_, err = tx.ExecContext(ctx,
			"INSERT INTO split_people (item_id, person_id, position) VALUES (?, ?, ?)",
			split.ItemID, personID, position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split person: %w", err)
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSplit removes the assignment for an item.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, itemID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_people WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to delete split people: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM split_assignments WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to delete split assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
