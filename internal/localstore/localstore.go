// Package localstore is a small SQLite key/value store with a byte quota,
// used to keep quota templates on the local disk.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/templates"
	_ "modernc.org/sqlite"
)

// DefaultMaxBytes caps the total stored value size when no limit is given.
const DefaultMaxBytes = 5 << 20

const templatesKey = "quota_templates"

// ErrQuotaExceeded is returned by Put when the write would push the store
// past its byte limit.
var ErrQuotaExceeded = errors.New("local store quota exceeded")

// DB is a key/value store backed by dir/workoutgen.db.
type DB struct {
	db       *sql.DB
	maxBytes int64
}

// Open opens (or creates) the store in dir. A maxBytes of zero or less uses
// DefaultMaxBytes.
func Open(dir string, maxBytes int64) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "workoutgen.db"))
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &DB{db: db, maxBytes: maxBytes}, nil
}

// Get returns the value for key, or nil if it is not set.
func (s *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key. It fails with ErrQuotaExceeded, leaving the
// previous value in place, if the store would exceed its byte limit.
func (s *DB) Put(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var others int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(length(value)), 0) FROM kv WHERE key != ?`, key,
	).Scan(&others)
	if err != nil {
		return fmt.Errorf("measuring store: %w", err)
	}
	if size := others + int64(len(value)); size > s.maxBytes {
		return fmt.Errorf("%d bytes exceeds limit of %d: %w", size, s.maxBytes, ErrQuotaExceeded)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return tx.Commit()
}

// Close closes the store.
func (s *DB) Close() error {
	return s.db.Close()
}

// Templates returns a templates.Backend that keeps the list as one JSON
// value in s.
func (s *DB) Templates() templates.Backend {
	return templateBackend{s}
}

type templateBackend struct {
	s *DB
}

func (b templateBackend) Load(ctx context.Context) ([]models.QuotaTemplate, error) {
	data, err := b.s.Get(ctx, templatesKey)
	if err != nil || data == nil {
		return nil, err
	}
	var list []models.QuotaTemplate
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}
	return list, nil
}

func (b templateBackend) Save(ctx context.Context, list []models.QuotaTemplate) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}
	err = b.s.Put(ctx, templatesKey, data)
	if errors.Is(err, ErrQuotaExceeded) {
		return fmt.Errorf("%w: %w", templates.ErrStorageFull, err)
	}
	return err
}
