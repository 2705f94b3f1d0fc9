package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Split assignments reference items by ID only: an item's assignment is
// removed explicitly, and person IDs inside assignments may dangle.
const schema = `
CREATE TABLE IF NOT EXISTS people (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS receipt_groups (
    id TEXT PRIMARY KEY,
    platform TEXT NOT NULL,
    date TEXT NOT NULL,
    currency TEXT NOT NULL,
    payer_id TEXT NOT NULL DEFAULT '',
    model_used TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    quantity REAL NOT NULL DEFAULT 0,
    FOREIGN KEY (group_id) REFERENCES receipt_groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_assignments (
    item_id TEXT PRIMARY KEY,
    is_all INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_people (
    item_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (item_id, person_id),
    FOREIGN KEY (item_id) REFERENCES split_assignments(item_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_group_id ON items(group_id);
CREATE INDEX IF NOT EXISTS idx_split_people_item_id ON split_people(item_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
