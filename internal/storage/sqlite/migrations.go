package sqlite

import (
	"context"
	"database/sql"
)

// schema sets up the database. It runs on startup and is idempotent.
// count_records must exist before verifications due to the foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS count_records (
    id TEXT PRIMARY KEY,
    head_count INTEGER NOT NULL CHECK (head_count >= 0),
    confidence REAL NOT NULL,
    session_name TEXT NOT NULL DEFAULT '',
    image_size INTEGER NOT NULL DEFAULT 0,
    counter TEXT NOT NULL DEFAULT '',
    signature_count INTEGER CHECK (signature_count >= 0),
    is_matched INTEGER,
    created_at INTEGER NOT NULL,
    CHECK ((signature_count IS NULL) = (is_matched IS NULL))
);

CREATE TABLE IF NOT EXISTS signature_records (
    id TEXT PRIMARY KEY,
    image_url TEXT NOT NULL,
    signature_count INTEGER NOT NULL CHECK (signature_count >= 0),
    confidence REAL NOT NULL,
    pages INTEGER NOT NULL DEFAULT 1,
    session_name TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS verifications (
    id TEXT PRIMARY KEY,
    count_record_id TEXT NOT NULL,
    signature_record_id TEXT NOT NULL,
    head_count INTEGER NOT NULL,
    signature_count INTEGER NOT NULL,
    difference INTEGER NOT NULL,
    is_matched INTEGER NOT NULL,
    accuracy REAL NOT NULL,
    status TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    threshold INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (count_record_id) REFERENCES count_records(id) ON DELETE CASCADE,
    FOREIGN KEY (signature_record_id) REFERENCES signature_records(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_count_records_created_at ON count_records(created_at);
CREATE INDEX IF NOT EXISTS idx_count_records_head_count ON count_records(head_count);
CREATE INDEX IF NOT EXISTS idx_verifications_count_record_id ON verifications(count_record_id);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
