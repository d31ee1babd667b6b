// Package redis provides the Redis-backed session store, the store of
// choice for multi-instance deployments: sessions expire server-side via
// TTL and survive process restarts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Store implements ports.SessionStore on a Redis backend.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets a server-side expiration on stored sessions. Zero keeps them
// until deleted; pair a nonzero value with the engine's session lifetime so
// Redis reaps what the engine would discard anyway.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New connects a store to a Redis server.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "menuflow:session:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(msisdn string) string {
	return s.prefix + msisdn
}

// Save persists the session document under the subscriber key.
func (s *Store) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", msisdn, err)
	}
	if err := s.client.Set(ctx, s.key(msisdn), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session %q to redis: %w", msisdn, err)
	}
	return nil
}

// Load retrieves the session document for a subscriber.
func (s *Store) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	val, err := s.client.Get(ctx, s.key(msisdn)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("loading %q: %w", msisdn, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("loading session %q from redis: %w", msisdn, err)
	}
	var state domain.SessionState
	if err := json.Unmarshal(val, &state); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", msisdn, err)
	}
	return &state, nil
}

// Delete removes the subscriber's session. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, msisdn string) error {
	if err := s.client.Del(ctx, s.key(msisdn)).Err(); err != nil {
		return fmt.Errorf("deleting session %q from redis: %w", msisdn, err)
	}
	return nil
}

// Exists reports whether a session is stored for the subscriber.
func (s *Store) Exists(ctx context.Context, msisdn string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(msisdn)).Result()
	if err != nil {
		return false, fmt.Errorf("checking session %q in redis: %w", msisdn, err)
	}
	return n > 0, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Locker returns a per-subscriber locker sharing this store's client, so a
// fleet of instances behind one Redis serializes handling per msisdn.
func (s *Store) Locker() *Locker {
	return NewLocker(s.client, "menuflow:")
}
