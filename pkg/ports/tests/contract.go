// Package tests contains reusable contract suites adapters can run to prove
// they comply with the ports interfaces.
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/ports"
)

// SessionStoreContract verifies an adapter complies with ports.SessionStore.
func SessionStoreContract(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "233000000000")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		state := domain.NewSessionState(time.Now().Truncate(time.Second))
		state.CurrentMenu = "enterName"
		state.PushHistory("welcome")
		state.EnqueueForced("confirm")
		state.LogResponse("welcome", "1")
		state.Developer["lang"] = "en"
		state.Pagination = &domain.PaginationState{Chunks: []string{"a", "b"}, Index: 1}

		if err := store.Save(ctx, "233541234567", state); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "233541234567")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.CurrentMenu != "enterName" {
			t.Errorf("current menu mismatch: got %q", loaded.CurrentMenu)
		}
		if len(loaded.History) != 1 || loaded.History[0] != "welcome" {
			t.Errorf("history mismatch: got %v", loaded.History)
		}
		if len(loaded.ForcedFlow) != 1 || loaded.ForcedFlow[0] != "confirm" {
			t.Errorf("forced flow mismatch: got %v", loaded.ForcedFlow)
		}
		if got, _ := loaded.LastResponse("welcome"); got != "1" {
			t.Errorf("previous responses mismatch: got %q", got)
		}
		if loaded.Pagination == nil || loaded.Pagination.Index != 1 {
			t.Errorf("pagination mismatch: got %+v", loaded.Pagination)
		}
		if loaded.IsNew {
			t.Error("loaded session must not be flagged new")
		}
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, "233541234567")
		if err != nil {
			t.Fatalf("exists failed: %v", err)
		}
		if !ok {
			t.Error("expected session to exist after save")
		}

		ok, err = store.Exists(ctx, "233000000000")
		if err != nil {
			t.Fatalf("exists failed: %v", err)
		}
		if ok {
			t.Error("expected no session for unknown subscriber")
		}
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		state := domain.NewSessionState(time.Now())
		state.CurrentMenu = "somewhereElse"
		if err := store.Save(ctx, "233541234567", state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := store.Load(ctx, "233541234567")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.CurrentMenu != "somewhereElse" {
			t.Errorf("expected overwrite, got %q", loaded.CurrentMenu)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "233541234567"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "233541234567"); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}

		// Deleting again is not an error.
		if err := store.Delete(ctx, "233541234567"); err != nil {
			t.Errorf("double delete must be a no-op, got %v", err)
		}
	})
}
