package models

// ReceiptGroup is a batch of items from one receipt (or several receipts from
// the same platform on the same date, which are merged).
type ReceiptGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Platform is where the order came from (e.g., "Zepto", "Blinkit").
	Platform string `json:"platform"`

	// Date is the receipt date in YYYY-MM-DD format.
	Date string `json:"date"`

	// Currency is the ISO 4217 code of all prices in this group.
	Currency string `json:"currency"`

	// Items are the priced lines of the receipt, owned by value.
	Items []Item `json:"items"`

	// PayerID is the person who paid for this receipt. Optional; only used
	// when settling up.
	PayerID string `json:"payerId,omitempty"`

	// ModelUsed is the vision model that extracted the items, if any.
	ModelUsed string `json:"modelUsed,omitempty"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Item represents a single priced line on a receipt.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the line description (e.g., "Amul Butter 500g").
	Name string `json:"name"`

	// Price is the line total in currency units. Negative for discounts.
	Price float64 `json:"price"`

	// Quantity is the number of units on the line. Zero means unspecified.
	Quantity float64 `json:"quantity,omitempty"`
}

// ItemIDs returns the IDs of all items in the group, in order.
func (g *ReceiptGroup) ItemIDs() []string {
	ids := make([]string, len(g.Items))
	for i, item := range g.Items {
		ids[i] = item.ID
	}
	return ids
}
