// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sync"
)

// Backend keeps lists in a map. Values are copied on the way in and out.
type Backend struct {
	data map[string][]string
	mu   sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{data: make(map[string][]string)}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Close() error { return nil }

func (b *Backend) Load(_ context.Context, key string) ([]string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]string{}, v...), true, nil
}

func (b *Backend) Save(_ context.Context, key string, values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]string{}, values...)
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}
