package sms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/internal/adapters/sms"
)

func TestSender_PostsForm(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"sender":  r.PostFormValue("sender"),
			"to":      r.PostFormValue("to"),
			"message": r.PostFormValue("message"),
		}
	}))
	defer srv.Close()

	sender := sms.New(srv.URL, "MENUFLOW")
	require.NoError(t, sender.Send(context.Background(), "233541234567", "Your balance is GHS 12.50"))

	assert.Equal(t, "MENUFLOW", got["sender"])
	assert.Equal(t, "233541234567", got["to"])
	assert.Equal(t, "Your balance is GHS 12.50", got["message"])
}

func TestSender_GatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rejected", http.StatusForbidden)
	}))
	defer srv.Close()

	sender := sms.New(srv.URL, "MENUFLOW")
	assert.Error(t, sender.Send(context.Background(), "233541234567", "hi"))
}
