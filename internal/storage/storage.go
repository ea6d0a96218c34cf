package storage

import (
	"sync"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/models"
)

// Entry is one cached fetch result
type Entry struct {
	Records   []models.CandidateRecord `json:"records"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// Expired reports whether the entry is older than ttl. A non-positive ttl never expires.
func (e Entry) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(e.FetchedAt) > ttl
}

// MemoryStore keeps fetch results for the lifetime of the process
type MemoryStore struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[key]
	return entry, exists, nil
}

func (s *MemoryStore) Set(key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
