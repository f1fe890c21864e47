// Package storage implements the KVStore and knowledge-store contracts
// using SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements service.KVStore using a single SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: dbPath is required", common.ErrInvalidConfig)
	}

	// Ensure directory exists
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate brings the schema up to the expected version.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

// Get retrieves a document by namespace and key. Returns
// common.ErrKeyNotFound for absent keys.
func (s *SQLiteStore) Get(ctx context.Context, namespace, key string) (json.RawMessage, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM kv_documents
		WHERE namespace = ? AND key = ?
	`, namespace, key).Scan(&doc)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", namespace, key, err)
	}

	return json.RawMessage(doc), nil
}

// Set stores a document, replacing any existing one for the same key.
func (s *SQLiteStore) Set(ctx context.Context, namespace, key string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return fmt.Errorf("%w: document for %s/%s is not valid JSON", common.ErrStoreCorrupted, namespace, key)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_documents (namespace, key, doc, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET
			doc = excluded.doc,
			updated_at = CURRENT_TIMESTAMP
	`, namespace, key, string(doc))
	if err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", namespace, key, err)
	}

	return nil
}

// Keys lists the keys stored under a namespace, ordered lexically.
func (s *SQLiteStore) Keys(ctx context.Context, namespace string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key FROM kv_documents
		WHERE namespace = ?
		ORDER BY key
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys in %s: %w", namespace, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys: %w", err)
	}

	return keys, nil
}

// Delete removes a document. Missing keys are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_documents WHERE namespace = ? AND key = ?
	`, namespace, key)
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", namespace, key, err)
	}
	return nil
}

// DeleteNamespace removes every document under a namespace and returns the
// number removed.
func (s *SQLiteStore) DeleteNamespace(ctx context.Context, namespace string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_documents WHERE namespace = ?
	`, namespace)
	if err != nil {
		return 0, fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n, nil
}
