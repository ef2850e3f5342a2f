package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/templates"
)

// TemplateBackend stores quota templates in the quota_templates table.
// A MaxBytes above zero caps the total encoded size of the list.
type TemplateBackend struct {
	db       *DB
	MaxBytes int
}

// Compile-time check: *TemplateBackend satisfies templates.Backend.
var _ templates.Backend = (*TemplateBackend)(nil)

// NewTemplateBackend creates a template backend on db.
func NewTemplateBackend(db *DB, maxBytes int) *TemplateBackend {
	return &TemplateBackend{db: db, MaxBytes: maxBytes}
}

// Load implements templates.Backend.
func (b *TemplateBackend) Load(ctx context.Context) ([]models.QuotaTemplate, error) {
	rows, err := b.db.Pool.Query(ctx,
		`SELECT id, name, quotas, created_at FROM quota_templates ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying quota templates: %w", err)
	}
	defer rows.Close()

	var result []models.QuotaTemplate
	for rows.Next() {
		var t models.QuotaTemplate
		var quotas []byte
		if err := rows.Scan(&t.ID, &t.Name, &quotas, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning quota template: %w", err)
		}
		if err := json.Unmarshal(quotas, &t.Quotas); err != nil {
			return nil, fmt.Errorf("decoding quotas for %s: %w", t.ID, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Save implements templates.Backend. The whole list is replaced in one
// transaction.
func (b *TemplateBackend) Save(ctx context.Context, list []models.QuotaTemplate) error {
	encoded := make([][]byte, len(list))
	total := 0
	for i, t := range list {
		data, err := json.Marshal(t.Quotas)
		if err != nil {
			return fmt.Errorf("encoding quotas: %w", err)
		}
		encoded[i] = data
		total += len(data) + len(t.Name)
	}
	if b.MaxBytes > 0 && total > b.MaxBytes {
		return fmt.Errorf("%d bytes exceeds limit of %d: %w", total, b.MaxBytes, templates.ErrStorageFull)
	}

	tx, err := b.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quota_templates`); err != nil {
		return fmt.Errorf("clearing quota templates: %w", err)
	}
	for i, t := range list {
		if _, err := tx.Exec(ctx,
			`INSERT INTO quota_templates (id, position, name, quotas, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			t.ID, i, t.Name, encoded[i], t.CreatedAt); err != nil {
			return fmt.Errorf("inserting quota template %s: %w", t.ID, err)
		}
	}
	return tx.Commit(ctx)
}
