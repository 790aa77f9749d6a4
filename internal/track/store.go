// Package track persists the tracker's small durable state. The only
// key today is the id of the most recently viewed order, so a reload
// resumes tracking the same order.
package track

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

const lastOrderKey = "last_order_id"

// Store is an embedded sqlite key-value store.
type Store struct {
	db *sqlx.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open track db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply track schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetLastOrderID records id as the most recently viewed order.
func (s *Store) SetLastOrderID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastOrderKey, id)
	if err != nil {
		return fmt.Errorf("persist last order id: %w", err)
	}
	return nil
}

// LastOrderID returns the persisted order id, or "" when none was ever
// recorded.
func (s *Store) LastOrderID(ctx context.Context) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT value FROM kv WHERE key = ?`, lastOrderKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last order id: %w", err)
	}
	return id, nil
}
