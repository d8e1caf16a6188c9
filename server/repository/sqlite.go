package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

const DefaultSQLiteDSN = "file::memory:"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS messages (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	body TEXT NOT NULL
);
`

// SQLite stores users and messages in a SQLite database. With the default
// DSN the database lives in memory and is gone when the process exits.
// Log index = rowid - 1; rows are never deleted, so indices stay dense.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dsn string) (*SQLite, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", dsn, err)
	}
	// An in-memory database belongs to a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Register(ctx context.Context, username string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO users (name) VALUES (?)", username)
	if err != nil {
		return false, fmt.Errorf("failed to insert user %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *SQLite) IsRegistered(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE name = ?)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error querying user %q: %w", username, err)
	}
	return exists, nil
}

func (s *SQLite) Append(ctx context.Context, text string) (uint64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO messages (body) VALUES (?)", text)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read message id: %w", err)
	}
	if id < 1 {
		return 0, fmt.Errorf("unexpected message id %d", id)
	}
	return uint64(id - 1), nil
}

func (s *SQLite) ReadFrom(ctx context.Context, cursor uint64) ([]string, error) {
	if cursor >= math.MaxInt64 {
		return []string{}, nil
	}
	rows, err := s.db.QueryContext(ctx, "SELECT body FROM messages WHERE id > ? ORDER BY id", int64(cursor))
	if err != nil {
		return nil, fmt.Errorf("failed to query messages from %d: %w", cursor, err)
	}
	defer rows.Close()

	messages := []string{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over messages: %w", err)
	}
	return messages, nil
}

func (s *SQLite) Len(ctx context.Context) (uint64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return uint64(n), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
