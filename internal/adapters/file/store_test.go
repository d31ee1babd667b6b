package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/internal/adapters/file"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/ports/tests"
)

func TestStore_Contract(t *testing.T) {
	tests.SessionStoreContract(t, file.New(t.TempDir()))
}

func TestStore_FilePerSubscriber(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	state := domain.NewSessionState(time.Now())
	state.CurrentMenu = "enterPin"
	require.NoError(t, store.Save(ctx, "233541234567", state))

	_, err := os.Stat(filepath.Join(dir, "233541234567.json"))
	assert.NoError(t, err)
}

func TestStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, "233541234567", domain.NewSessionState(time.Now())))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
