package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLStateRepository stores values in a key/value table. The statements are
// portable between SQLite and PostgreSQL; placeholders are rebound per driver.
type SQLStateRepository struct {
	db *sqlx.DB
}

// NewSQLStateRepository constructs the repository.
func NewSQLStateRepository(db *sqlx.DB) *SQLStateRepository {
	return &SQLStateRepository{db: db}
}

// EnsureSchema creates the key/value table when missing.
func (r *SQLStateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

// Get returns the raw value stored under key.
func (r *SQLStateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := r.db.Rebind(`SELECT value FROM kv_store WHERE key = ?`)
	var value string
	if err := r.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("get state %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put upserts the value stored under key.
func (r *SQLStateRepository) Put(ctx context.Context, key string, value []byte) error {
	query := r.db.Rebind(`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("put state %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (r *SQLStateRepository) Delete(ctx context.Context, key string) error {
	query := r.db.Rebind(`DELETE FROM kv_store WHERE key = ?`)
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}
