package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

const sqliteSchema = `
-- Plain string values: pinned words and puzzle state.
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Set members; seq keeps insertion order so recent history can be windowed.
CREATE TABLE IF NOT EXISTS kv_sets (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    key TEXT NOT NULL,
    member TEXT NOT NULL,
    added_at DATETIME NOT NULL,
    UNIQUE(key, member)
);

-- Sorted set members.
CREATE TABLE IF NOT EXISTS kv_zsets (
    key TEXT NOT NULL,
    member TEXT NOT NULL,
    score INTEGER NOT NULL,
    PRIMARY KEY (key, member)
);
`

// SQLiteKV is the file-backed local backend.
type SQLiteKV struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteKV{db: db, path: path}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) SMembers(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT member FROM kv_sets WHERE key = ? ORDER BY seq`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read set %s: %w", key, err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan member of %s: %w", key, err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteKV) SAdd(ctx context.Context, key, member string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_sets (key, member, added_at) VALUES (?, ?, ?)
		ON CONFLICT(key, member) DO NOTHING
	`, key, member, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add %s to %s: %w", member, key, err)
	}
	return nil
}

func (s *SQLiteKV) ZAdd(ctx context.Context, key string, score int64, member string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_zsets (key, member, score) VALUES (?, ?, ?)
		ON CONFLICT(key, member) DO UPDATE SET score = excluded.score
	`, key, member, score)
	if err != nil {
		return fmt.Errorf("failed to score %s in %s: %w", member, key, err)
	}
	return nil
}

func (s *SQLiteKV) ZTail(ctx context.Context, key string, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member FROM (
			SELECT member, score FROM kv_zsets WHERE key = ?
			ORDER BY score DESC, member DESC LIMIT ?
		) ORDER BY score, member
	`, key, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read sorted set %s: %w", key, err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan member of %s: %w", key, err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteKV) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteKV) Name() string { return "file" }

// Close closes the database connection.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
