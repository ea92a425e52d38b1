package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stockkeep/backend/internal/domain"
)

// snapshot is a single stored payload with optional expiration
type snapshot struct {
	data       []byte
	expiration time.Time // zero means never
}

// MemoryStore is a thread-safe in-process snapshot store. Contents are lost on exit.
type MemoryStore struct {
	data  map[string]snapshot
	ttl   time.Duration
	now   func() time.Time
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty memory store. A zero ttl keeps snapshots forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]snapshot),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Save stores a copy of data under name
func (s *MemoryStore) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("storage: snapshot name is required")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	item := snapshot{data: append([]byte(nil), data...)}
	if s.ttl > 0 {
		item.expiration = s.now().Add(s.ttl)
	}
	s.data[name] = item
	return nil
}

// Load returns a copy of the snapshot stored under name
func (s *MemoryStore) Load(ctx context.Context, name string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[name]
	if !exists || s.expired(item) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, name)
	}
	return append([]byte(nil), item.data...), nil
}

// Size returns the number of live snapshots
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	n := 0
	for _, item := range s.data {
		if !s.expired(item) {
			n++
		}
	}
	return n
}

// Clear removes all snapshots
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string]snapshot)
}

func (s *MemoryStore) expired(item snapshot) bool {
	return !item.expiration.IsZero() && s.now().After(item.expiration)
}
