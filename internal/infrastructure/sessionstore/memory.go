package sessionstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is the default in-process Store. Records are kept as JSON
// so Get returns detached copies, same as the redis driver.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Version = 1

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.data[rec.ID] = raw
	return nil
}

// Get implements Store. Returns nil when the session is unknown.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	raw, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update implements Store with the version check done under the lock.
func (s *MemoryStore) Update(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[rec.ID]
	if !ok {
		return ErrNotFound
	}

	var stored Record
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}
	if stored.Version != rec.Version {
		return ErrVersionConflict
	}

	rec.Version++
	rec.UpdatedAt = time.Now()

	updated, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.data[rec.ID] = updated
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
