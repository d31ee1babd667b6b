package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by stores when no session exists for a
// subscriber key.
var ErrSessionNotFound = errors.New("session not found")

// ErrMenuNotFound is returned by the registry when a menu name has no
// declarative definition.
var ErrMenuNotFound = errors.New("menu not found")

// ConfigError reports a menu definition or entity contract violation. It is
// fatal for the request that hits it.
type ConfigError struct {
	Menu   string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Menu == "" {
		return "menu configuration error: " + e.Detail
	}
	return fmt.Sprintf("menu %q configuration error: %s", e.Menu, e.Detail)
}

// OversizedContentError reports a single content line that cannot fit a
// bounded screen even with the whole budget to itself.
type OversizedContentError struct {
	Text   string
	Budget int
}

func (e *OversizedContentError) Error() string {
	return fmt.Sprintf("content %q cannot fit the screen: it must be at most %d characters once navigation is appended", e.Text, e.Budget)
}

// PaginationStateError reports a split-screen index that fell outside the
// stored chunk list. It indicates a mismatched session replay and is always
// an internal fault, never a user error.
type PaginationStateError struct {
	Index  int
	Chunks int
}

func (e *PaginationStateError) Error() string {
	return fmt.Sprintf("pagination index %d out of range for %d chunks", e.Index, e.Chunks)
}
