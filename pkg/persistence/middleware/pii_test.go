package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/internal/adapters/memory"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/persistence/middleware"
)

func TestPIIMasking_MasksStoredCopyOnly(t *testing.T) {
	backend := memory.New()
	store := middleware.Chain(backend, middleware.NewPIIMasking([]string{`(?i)pin`, `account`}))
	ctx := context.Background()

	state := domain.NewSessionState(time.Now())
	state.CurrentMenu = "confirm"
	state.LogResponse("enterPin", "1234")
	state.LogResponse("enterAmount", "50")
	state.Developer["accountNumber"] = "0011223344"
	state.Developer["lang"] = "en"

	require.NoError(t, store.Save(ctx, "233541234567", state))

	stored, err := backend.Load(ctx, "233541234567")
	require.NoError(t, err)
	assert.Equal(t, []string{"***"}, stored.Responses("enterPin"))
	assert.Equal(t, []string{"50"}, stored.Responses("enterAmount"))
	assert.Equal(t, "***", stored.Developer["accountNumber"])
	assert.Equal(t, "en", stored.Developer["lang"])

	// The engine's in-memory copy is untouched.
	assert.Equal(t, []string{"1234"}, state.Responses("enterPin"))
	assert.Equal(t, "0011223344", state.Developer["accountNumber"])
}

func TestPIIMasking_NestedDeveloperMaps(t *testing.T) {
	backend := memory.New()
	store := middleware.Chain(backend, middleware.NewPIIMasking([]string{`secret`}))
	ctx := context.Background()

	state := domain.NewSessionState(time.Now())
	state.Developer["profile"] = map[string]any{
		"name":   "Amy",
		"secret": "hunter2",
	}
	require.NoError(t, store.Save(ctx, "233541234567", state))

	stored, err := backend.Load(ctx, "233541234567")
	require.NoError(t, err)
	profile := stored.Developer["profile"].(map[string]any)
	assert.Equal(t, "***", profile["secret"])
	assert.Equal(t, "Amy", profile["name"])
}
