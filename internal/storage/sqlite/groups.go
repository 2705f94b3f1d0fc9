package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

const groupColumns = "id, platform, date, currency, payer_id, model_used, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (models.ReceiptGroup, error) {
	var g models.ReceiptGroup
	err := row.Scan(&g.ID, &g.Platform, &g.Date, &g.Currency, &g.PayerID, &g.ModelUsed, &g.CreatedAt)
	g.Items = []models.Item{}
	return g, err
}

// ListGroups returns all receipt groups, oldest first, with their items.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]models.ReceiptGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+groupColumns+" FROM receipt_groups ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipt groups: %w", err)
	}
	defer rows.Close()

	groups := []models.ReceiptGroup{}
	index := make(map[string]int)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt group: %w", err)
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt groups: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT group_id, id, name, price, quantity FROM items ORDER BY group_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var groupID string
		var item models.Item
		if err := itemRows.Scan(&groupID, &item.ID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].Items = append(groups[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return groups, nil
}

// GetGroup retrieves a receipt group by ID, including its items.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.ReceiptGroup, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM receipt_groups WHERE id = ?", groupID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, quantity FROM items WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		g.Items = append(g.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return &g, nil
}

// UpsertGroup creates or replaces a receipt group. Items are rewritten
// wholesale in slice order.
func (s *SQLiteStore) UpsertGroup(ctx context.Context, group *models.ReceiptGroup) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipt_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     platform = excluded.platform,
		     date = excluded.date,
		     currency = excluded.currency,
		     payer_id = excluded.payer_id,
		     model_used = excluded.model_used`,
		group.ID, group.Platform, group.Date, group.Currency, group.PayerID, group.ModelUsed, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert receipt group: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	for i := range group.Items {
		item := &group.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, group_id, position, name, price, quantity) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, group.ID, i, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteGroup removes a receipt group and its items.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM receipt_groups WHERE id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete receipt group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
