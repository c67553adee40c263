package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

// MemoryStore keeps documents in process memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(ctx context.Context, name string, data []byte) error {
	if err := errors.ValidateDiagramName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = memoryEntry{data: slices.Clone(data), updatedAt: time.Now().UTC()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := errors.ValidateDiagramName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	if !ok {
		return nil, notFound(name)
	}
	return slices.Clone(e.data), nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDiagramName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return notFound(name)
	}
	delete(s.entries, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.entries))
	for name, e := range s.entries {
		out = append(out, Info{Name: name, Size: len(e.data), UpdatedAt: e.updatedAt})
	}
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
