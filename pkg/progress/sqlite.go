package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nasimstg/skilltree/pkg/tree"
)

// SQLiteStore keeps completion sets in a single-file SQLite database.
// Suited to local multi-tree history where the flat-file store would
// scatter many small files.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS progress (
    user_id    TEXT NOT NULL,
    tree_id    TEXT NOT NULL,
    completed  TEXT NOT NULL DEFAULT '[]',
    updated_at TEXT NOT NULL,
    PRIMARY KEY (user_id, tree_id)
);
`

// OpenSQLiteStore opens (creating if needed) a SQLite progress store at
// the given path. If path is ":memory:", an in-memory database is used.
// WAL mode is enabled for concurrent read performance.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the stored completion set, or an empty set if none exists.
func (s *SQLiteStore) Get(ctx context.Context, user, treeID string) (tree.Set, error) {
	query := `SELECT completed FROM progress WHERE user_id = ? AND tree_id = ?`
	var raw string
	err := s.db.QueryRowContext(ctx, query, user, treeID).Scan(&raw)
	if err == sql.ErrNoRows {
		return tree.NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying progress: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("parsing completed list: %w", err)
	}
	return tree.NewSet(ids...), nil
}

// Upsert replaces the stored completion set.
func (s *SQLiteStore) Upsert(ctx context.Context, user, treeID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshaling completed list: %w", err)
	}

	query := `INSERT INTO progress (user_id, tree_id, completed, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, tree_id) DO UPDATE SET
			completed = excluded.completed,
			updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, user, treeID, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting progress: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
