// ABOUTME: SQLite schema migrations for the document store.
// ABOUTME: Tracks the applied version in PRAGMA user_version.
package storage

import "fmt"

const schemaVersion = 1

// migrate brings the database up to schemaVersion.
func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

func (s *SQLiteStore) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		registered_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL REFERENCES collections(name),
		id TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("migrate v1: %w", err)
	}
	return nil
}
