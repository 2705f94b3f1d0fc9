package models

// Person represents a participant in a receipt split.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name (e.g., "Asha").
	Name string `json:"name"`

	// Emoji is an optional avatar shown next to the name.
	Emoji string `json:"emoji,omitempty"`

	// CreatedAt is the Unix timestamp when the person was added.
	// People are listed in this order.
	CreatedAt int64 `json:"createdAt"`
}
