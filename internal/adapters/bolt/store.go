// Package bolt provides a single-file embedded session store on bbolt, for
// single-instance deployments that want durability without running a
// database server.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

var bucketSessions = []byte("sessions")

// Store implements ports.SessionStore on a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database file and its bucket.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Save persists the session document under the subscriber key.
func (s *Store) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", msisdn, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(msisdn), data)
	})
	if err != nil {
		return fmt.Errorf("saving session %q: %w", msisdn, err)
	}
	return nil
}

// Load retrieves the session document for a subscriber.
func (s *Store) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSessions).Get([]byte(msisdn)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading session %q: %w", msisdn, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("loading %q: %w", msisdn, domain.ErrSessionNotFound)
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", msisdn, err)
	}
	return &state, nil
}

// Delete removes the subscriber's session. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, msisdn string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(msisdn))
	})
	if err != nil {
		return fmt.Errorf("deleting session %q: %w", msisdn, err)
	}
	return nil
}

// Exists reports whether a session is stored for the subscriber.
func (s *Store) Exists(ctx context.Context, msisdn string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketSessions).Get([]byte(msisdn)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("checking session %q: %w", msisdn, err)
	}
	return found, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
