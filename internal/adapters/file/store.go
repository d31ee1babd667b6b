// Package file provides a filesystem session store. Each subscriber's
// session lives in its own JSON file; saves go through a temp file, fsync
// and rename so a crash never leaves a half-written document behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Store implements ports.SessionStore on a directory of JSON files.
type Store struct {
	BasePath string
}

// New creates a store rooted at basePath, defaulting to
// ".menuflow/sessions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".menuflow", "sessions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(msisdn string) string {
	return filepath.Join(s.BasePath, msisdn+".json")
}

// Save writes the session document atomically.
func (s *Store) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	if msisdn == "" {
		return fmt.Errorf("msisdn cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("ensuring session directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", msisdn, err)
	}

	// The temp file must live in the destination directory: rename is only
	// atomic within one filesystem.
	tmp, err := os.CreateTemp(s.BasePath, "tmp-"+msisdn+"-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(msisdn)); err != nil {
		return fmt.Errorf("installing session file: %w", err)
	}
	return nil
}

// Load reads the subscriber's session document.
func (s *Store) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	if msisdn == "" {
		return nil, fmt.Errorf("msisdn cannot be empty")
	}
	data, err := os.ReadFile(s.path(msisdn))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %q: %w", msisdn, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", msisdn, err)
	}
	return &state, nil
}

// Delete removes the subscriber's session file if present.
func (s *Store) Delete(ctx context.Context, msisdn string) error {
	if msisdn == "" {
		return fmt.Errorf("msisdn cannot be empty")
	}
	if err := os.Remove(s.path(msisdn)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting session file: %w", err)
	}
	return nil
}

// Exists reports whether a session file is present for the subscriber.
func (s *Store) Exists(ctx context.Context, msisdn string) (bool, error) {
	_, err := os.Stat(s.path(msisdn))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking session file: %w", err)
}
