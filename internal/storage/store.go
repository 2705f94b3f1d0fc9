// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/receiptsplit/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the record store: three independently keyed collections
// (people by ID, receipt groups by ID with their items embedded, split
// assignments by item ID). Each supports list, upsert and delete.
type Store interface {
	// ListPeople returns all people in the order they were added.
	ListPeople(ctx context.Context) ([]models.Person, error)

	// UpsertPerson creates or updates a person.
	// ID and CreatedAt are populated when empty.
	UpsertPerson(ctx context.Context, person *models.Person) error

	// DeletePerson removes a person. Split assignments are left untouched.
	DeletePerson(ctx context.Context, personID string) error

	// ListGroups returns all receipt groups, oldest first, with their items.
	ListGroups(ctx context.Context) ([]models.ReceiptGroup, error)

	// GetGroup retrieves a receipt group by ID.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.ReceiptGroup, error)

	// UpsertGroup creates or replaces a receipt group and all of its items.
	// Group and item IDs are populated when empty.
	UpsertGroup(ctx context.Context, group *models.ReceiptGroup) error

	// DeleteGroup removes a receipt group and its items.
	DeleteGroup(ctx context.Context, groupID string) error

	// ListSplits returns all split assignments keyed by item ID.
	ListSplits(ctx context.Context) (map[string]models.SplitAssignment, error)

	// UpsertSplit creates or replaces the assignment for split.ItemID.
	UpsertSplit(ctx context.Context, split models.SplitAssignment) error

	// DeleteSplit removes the assignment for an item.
	DeleteSplit(ctx context.Context, itemID string) error

	// Close releases any resources held by the store.
	Close() error
}
