package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/claude/workoutgen/internal/models"
)

// MemoryBackend keeps the template list in memory, encoded as JSON so it
// behaves like the persistent backends: callers never share slices with it.
// A MaxBytes above zero caps the encoded size.
type MemoryBackend struct {
	mu       sync.Mutex
	data     []byte
	MaxBytes int
}

// Compile-time check: *MemoryBackend satisfies Backend.
var _ Backend = (*MemoryBackend)(nil)

// Load implements Backend.
func (m *MemoryBackend) Load(ctx context.Context) ([]models.QuotaTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []models.QuotaTemplate
	if len(m.data) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(m.data, &list); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}
	return list, nil
}

// Save implements Backend.
func (m *MemoryBackend) Save(ctx context.Context, templates []models.QuotaTemplate) error {
	data, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}
	if m.MaxBytes > 0 && len(data) > m.MaxBytes {
		return fmt.Errorf("%d bytes exceeds limit of %d: %w", len(data), m.MaxBytes, ErrStorageFull)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}
