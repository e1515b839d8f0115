package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/DukeRupert/pagelinks/internal/domain"
)

// MemoryStore keeps items in process memory. Used in development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Item
}

// NewMemoryStore creates a store holding items.
func NewMemoryStore(items ...domain.Item) *MemoryStore {
	s := &MemoryStore{items: slices.Clone(items)}
	s.sort()
	return s
}

func (s *MemoryStore) CountItems(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func (s *MemoryStore) ListItems(ctx context.Context, limit, offset int32) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 || int(offset) >= len(s.items) || limit <= 0 {
		return []domain.Item{}, nil
	}
	end := min(int(offset)+int(limit), len(s.items))
	return slices.Clone(s.items[offset:end]), nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.sort()
	return nil
}

// sort orders items newest first, ties broken by ID.
func (s *MemoryStore) sort() {
	slices.SortStableFunc(s.items, func(a, b domain.Item) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
