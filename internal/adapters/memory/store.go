// Package memory provides the in-process session store. It round-trips
// documents through their JSON encoding on every access so code using it
// sees exactly the serialization semantics of the durable stores.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Store is a concurrency-safe in-memory session store.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Load retrieves the session for a subscriber.
func (s *Store) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	s.mu.RLock()
	raw, ok := s.data[msisdn]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("loading %q: %w", msisdn, domain.ErrSessionNotFound)
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", msisdn, err)
	}
	return &state, nil
}

// Save persists the session for a subscriber.
func (s *Store) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", msisdn, err)
	}
	s.mu.Lock()
	s.data[msisdn] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the subscriber's session. Missing sessions are ignored.
func (s *Store) Delete(ctx context.Context, msisdn string) error {
	s.mu.Lock()
	delete(s.data, msisdn)
	s.mu.Unlock()
	return nil
}

// Exists reports whether a session is stored for the subscriber.
func (s *Store) Exists(ctx context.Context, msisdn string) (bool, error) {
	s.mu.RLock()
	_, ok := s.data[msisdn]
	s.mu.RUnlock()
	return ok, nil
}
