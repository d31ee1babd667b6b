package menuflow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/entity"
)

const sampleMenus = `
welcome:
  message: Welcome to TestBank
  actions:
    "1":
      display: Check balance
      next_menu: balance
    "2":
      display: Transfer
      next_menu: transfer

balance: {}

transfer:
  message: Transfer to?
  actions:
    "0":
      display: Back
      next_menu: __back
`

type balanceMenu struct{}

func (balanceMenu) Message(ctx context.Context, call *entity.Call) (any, error) {
	return "Your balance is GHS 12.50", nil
}

func writeMenus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menus.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleMenus), 0o644))
	return path
}

func newApp(t *testing.T, opts ...menuflow.Option) *menuflow.App {
	t.Helper()
	opts = append([]menuflow.Option{
		menuflow.WithMenuFile(writeMenus(t)),
		menuflow.WithEntity("balance", func() any { return balanceMenu{} }),
	}, opts...)
	app, err := menuflow.New(opts...)
	require.NoError(t, err)
	return app
}

func TestApp_FullDialog(t *testing.T) {
	app := newApp(t)
	ctx := context.Background()

	resp := app.Handle(ctx, &domain.Request{
		Msisdn: "233541234567", Network: "MTN", SessionID: "s-1",
		Type: domain.RequestInit,
	})
	assert.Equal(t, domain.RequestAskUserResponse, resp.ServiceOp)
	assert.Equal(t, "Welcome to TestBank\n1. Check balance\n2. Transfer", resp.Message)

	resp = app.Handle(ctx, &domain.Request{
		Msisdn: "233541234567", Network: "MTN", SessionID: "s-1",
		Response: "1", Type: domain.RequestUserSentResponse,
	})
	// balance has no actions and no defaults, so the flow ends there.
	assert.Equal(t, domain.RequestEnd, resp.ServiceOp)
	assert.Equal(t, "Your balance is GHS 12.50", resp.Message)
}

func TestApp_ServesHTTP(t *testing.T) {
	app := newApp(t)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/",
		"application/json",
		strings.NewReader(`{"msisdn":"233541234567","network":"MTN","sessionID":"s-9","ussdString":"","ussdServiceOp":"INIT"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func TestApp_GraphValidation(t *testing.T) {
	app := newApp(t)
	assert.Empty(t, app.Menus().ValidateGraph())
}

func TestApp_MissingWelcomeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menus.yml")
	require.NoError(t, os.WriteFile(path, []byte("other: {message: hi}\n"), 0o644))

	_, err := menuflow.New(menuflow.WithMenuFile(path))
	assert.Error(t, err)
}
