package httpfwd_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/internal/adapters/httpfwd"
	"github.com/rejoice-framework/menuflow/pkg/domain"
)

func TestForwarder_RelaysBody(t *testing.T) {
	var got domain.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"message":"remote says hi","ussdServiceOp":"ASK_USER_RESPONSE"}`))
	}))
	defer srv.Close()

	fwd := httpfwd.New()
	body, err := fwd.Forward(context.Background(), srv.URL, &domain.Request{
		Msisdn:    "233541234567",
		Network:   "MTN",
		SessionID: "s-1",
		Response:  "2",
		Type:      domain.RequestUserSentResponse,
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "remote says hi")
	assert.Equal(t, "233541234567", got.Msisdn)
	assert.Equal(t, "2", got.Response)
}

func TestForwarder_StatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	fwd := httpfwd.New()
	_, err := fwd.Forward(context.Background(), srv.URL, &domain.Request{
		Msisdn: "233541234567", Network: "MTN", SessionID: "s-1",
		Type: domain.RequestUserSentResponse,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
