package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/bazi/pkg/domain"
)

// Store implements ports.ReadingRecorder in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string]domain.ReadingRecord
	limit int
	mu    sync.RWMutex
}

// Option configures the Store.
type Option func(*Store)

// WithLimit caps the number of retained readings; the oldest are evicted first.
func WithLimit(limit int) Option {
	return func(s *Store) {
		s.limit = limit
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]domain.ReadingRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores a copy of the reading.
func (s *Store) Record(ctx context.Context, rec *domain.ReadingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = *rec

	if s.limit > 0 && len(s.data) > s.limit {
		ordered := s.sortedLocked()
		for _, old := range ordered[s.limit:] {
			delete(s.data, old.ID)
		}
	}
	return nil
}

// Get retrieves a reading by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.ReadingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrReadingNotFound
	}
	return &rec, nil
}

// Recent returns readings newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.ReadingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.sortedLocked()
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

func (s *Store) sortedLocked() []domain.ReadingRecord {
	out := make([]domain.ReadingRecord, 0, len(s.data))
	for _, rec := range s.data {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
