// Package templates stores named quota configurations for reuse.
package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/claude/workoutgen/internal/models"
	"github.com/google/uuid"
)

// MaxNameLength is the longest allowed template name, in characters.
const MaxNameLength = 50

var (
	// ErrStorageFull is returned when the backend has no room for the
	// updated template list. Backends wrap it; callers test with errors.Is.
	ErrStorageFull = errors.New("template storage full")

	// ErrNotFound is returned when deleting a template that does not exist.
	ErrNotFound = errors.New("template not found")
)

// ValidationError describes why a template was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid template %s: %s", e.Field, e.Message)
}

// Backend persists the full template list. Save replaces what was stored.
type Backend interface {
	Load(ctx context.Context) ([]models.QuotaTemplate, error)
	Save(ctx context.Context, templates []models.QuotaTemplate) error
}

// Store validates and persists quota templates. It keeps nothing in memory;
// every call reads the backend, so the last writer wins.
type Store struct {
	backend Backend
	now     func() time.Time
}

// NewStore creates a Store on top of backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// Save validates name and quotas and appends a new template.
func (s *Store) Save(ctx context.Context, name string, quotas []models.MuscleQuota) (models.QuotaTemplate, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, quotas); err != nil {
		return models.QuotaTemplate{}, err
	}

	existing, err := s.backend.Load(ctx)
	if err != nil {
		return models.QuotaTemplate{}, fmt.Errorf("loading templates: %w", err)
	}

	tmpl := models.QuotaTemplate{
		ID:        uuid.New(),
		Name:      name,
		Quotas:    append([]models.MuscleQuota(nil), quotas...),
		CreatedAt: s.now().UTC(),
	}
	if err := s.backend.Save(ctx, append(existing, tmpl)); err != nil {
		return models.QuotaTemplate{}, fmt.Errorf("saving templates: %w", err)
	}
	return tmpl, nil
}

// List returns all templates, newest first.
func (s *Store) List(ctx context.Context) ([]models.QuotaTemplate, error) {
	list, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Delete removes the template with the given ID.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	list, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	kept := make([]models.QuotaTemplate, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(list) {
		return ErrNotFound
	}

	if err := s.backend.Save(ctx, kept); err != nil {
		return fmt.Errorf("saving templates: %w", err)
	}
	return nil
}

func validate(name string, quotas []models.MuscleQuota) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)}
	}
	if len(quotas) == 0 {
		return &ValidationError{Field: "quotas", Message: "at least one quota is required"}
	}
	seen := make(map[models.Tag]bool, len(quotas))
	for _, q := range quotas {
		if strings.TrimSpace(string(q.Tag)) == "" {
			return &ValidationError{Field: "quotas", Message: "tag is required"}
		}
		if q.Count < 1 {
			return &ValidationError{Field: "quotas", Message: fmt.Sprintf("count for %s must be at least 1", q.Tag)}
		}
		if seen[q.Tag] {
			return &ValidationError{Field: "quotas", Message: fmt.Sprintf("duplicate tag %s", q.Tag)}
		}
		seen[q.Tag] = true
	}
	return nil
}
