package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore is the embedded implementation of Store, backed by a single
// schemaless records table. Field maps are stored as JSON text so that
// record kinds can grow fields without migrations — the same property the
// spreadsheet backend gave the original capture paths.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database under dataDir and
// runs migrations.
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("record: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "records.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("record: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("record: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("record: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id    TEXT NOT NULL,
			kind        TEXT NOT NULL,
			fields      TEXT NOT NULL,
			inserted_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_records_owner_kind ON records(owner_id, kind);
		CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, ownerID, kind string, fields Row) error {
	if ownerID == "" {
		return fmt.Errorf("record: append: empty owner id")
	}
	if kind == "" {
		return fmt.Errorf("record: append: empty kind")
	}

	blob, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("record: encode fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (owner_id, kind, fields) VALUES (?, ?, ?)`,
		ownerID, kind, string(blob),
	)
	if err != nil {
		return fmt.Errorf("record: append %s/%s: %w", ownerID, kind, err)
	}
	return nil
}

// Query implements Store. Rows come back in insertion order; rows whose
// stored fields fail to decode are returned as empty maps rather than
// failing the whole read.
func (s *SQLiteStore) Query(ctx context.Context, ownerID, kind string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fields FROM records WHERE owner_id = ? AND kind = ? ORDER BY id ASC`,
		ownerID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("record: query %s/%s: %w", ownerID, kind, err)
	}
	defer func() { _ = rows.Close() }()

	results := []Row{}
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("record: scan: %w", err)
		}
		r := Row{}
		if err := json.Unmarshal([]byte(blob), &r); err != nil {
			r = Row{}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Counts returns the number of stored rows per kind for one owner.
func (s *SQLiteStore) Counts(ctx context.Context, ownerID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM records WHERE owner_id = ? GROUP BY kind`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("record: counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("record: scan counts: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// Owners returns the distinct owner ids with any stored rows, most
// recently active first.
func (s *SQLiteStore) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id FROM records GROUP BY owner_id ORDER BY MAX(id) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("record: owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("record: scan owners: %w", err)
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}
