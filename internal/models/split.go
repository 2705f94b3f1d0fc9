package models

// SplitAssignment records who owes for an item.
//
// When IsAll is true PersonIDs is ignored and the item is shared by every
// person known at calculation time. When IsAll is false and PersonIDs is
// empty the item is unassigned.
type SplitAssignment struct {
	// ItemID is the item this assignment belongs to.
	ItemID string `json:"itemId"`

	// PersonIDs are the people sharing the item, in the order they were picked.
	PersonIDs []string `json:"personIds"`

	// IsAll shares the item among everyone.
	IsAll bool `json:"isAll"`
}

// NewDefaultAssignment returns the assignment every new item starts with.
func NewDefaultAssignment(itemID string) SplitAssignment {
	return SplitAssignment{ItemID: itemID, PersonIDs: []string{}, IsAll: true}
}

// IsUnassigned reports whether nobody has been picked for the item.
func (a SplitAssignment) IsUnassigned() bool {
	return !a.IsAll && len(a.PersonIDs) == 0
}
