package credentials

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]string)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[key], nil
}

func (r *MemoryRepository) Apply(_ context.Context, set map[string]string, remove []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range remove {
		delete(r.values, k)
	}
	for k, v := range set {
		r.values[k] = v
	}
	return nil
}
