package postgres_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/internal/adapters/postgres"
	"github.com/rejoice-framework/menuflow/pkg/ports/tests"
)

// Runs only against a real database, e.g.
// MENUFLOW_TEST_POSTGRES_DSN=postgres://localhost/menuflow_test?sslmode=disable
func TestStore_Contract(t *testing.T) {
	dsn := os.Getenv("MENUFLOW_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MENUFLOW_TEST_POSTGRES_DSN not set")
	}

	store, err := postgres.Open(dsn)
	require.NoError(t, err)
	defer store.Close()

	tests.SessionStoreContract(t, store)
}
