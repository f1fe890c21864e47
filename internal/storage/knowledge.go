package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

// Record upserts a verified classification into the knowledge store.
// Keyed by code plus a hash of the sanitized description; a repeat of the
// same pair increments its usage counter instead of writing a new row.
func (s *SQLiteStore) Record(ctx context.Context, code, description string, result model.VerificationResult) error {
	hash := DescriptionHash(description)

	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO verified_knowledge (code, description_hash, description, doc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code, description_hash) DO UPDATE SET
			doc = excluded.doc,
			use_count = use_count + 1,
			last_seen = CURRENT_TIMESTAMP
	`, code, hash, description, string(doc))
	if err != nil {
		return fmt.Errorf("failed to record knowledge for %s: %w", code, err)
	}

	return nil
}

// KnowledgeUseCount returns the usage counter for a code/description pair,
// or zero when absent.
func (s *SQLiteStore) KnowledgeUseCount(ctx context.Context, code, description string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(use_count, 0) FROM verified_knowledge
		WHERE code = ? AND description_hash = ?
	`, code, DescriptionHash(description)).Scan(&count)
	if err != nil {
		return 0, nil //nolint:nilerr // absent row means zero uses
	}
	return count, nil
}

// DescriptionHash derives the stable key fragment for a product
// description: lowercase, whitespace collapsed, sha256, first 12 hex chars.
func DescriptionHash(description string) string {
	fields := strings.Fields(strings.ToLower(description))
	sum := sha256.Sum256([]byte(strings.Join(fields, " ")))
	return hex.EncodeToString(sum[:])[:12]
}
