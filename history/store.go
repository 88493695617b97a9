package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record has the requested ID
var ErrNotFound = errors.New("prediction record not found")

// Store persists audited predictions
type Store interface {
	// Add assigns an ID when empty, stamps CreatedAt and stores the record
	Add(ctx context.Context, rec *Record) error

	// Get returns a record by ID
	Get(ctx context.Context, id string) (*Record, error)

	// ListRecent returns up to limit records, newest first
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}

// prepare fills the fields every store sets on insert
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
}

// InMemoryStore implements Store with a map. Safe for concurrent use.
type InMemoryStore struct {
	records map[string]*Record
	mu      sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Record),
	}
}

// Add stores a copy of rec
func (s *InMemoryStore) Add(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID != "" {
		if _, exists := s.records[rec.ID]; exists {
			return fmt.Errorf("prediction record %s already exists", rec.ID)
		}
	}

	prepare(rec)
	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}

// Get returns a copy of the record with the given ID
func (s *InMemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := *rec
	return &out, nil
}

// ListRecent returns copies of the newest records
func (s *InMemoryStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	s.mu.RLock()
	all := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out := *rec
		all = append(all, &out)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
