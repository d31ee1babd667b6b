package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

type stubEngine struct {
	got  *domain.Request
	resp *domain.Response
}

func (e *stubEngine) Handle(ctx context.Context, req *domain.Request) *domain.Response {
	e.got = req
	return e.resp
}

func TestHandleRequest_JSON(t *testing.T) {
	engine := &stubEngine{resp: &domain.Response{
		Message:   "Welcome\n1. Transfer",
		ServiceOp: domain.RequestAskUserResponse,
		SessionID: "s-1",
	}}
	handler := NewHandler(engine, nil)

	body := `{"msisdn":"233541234567","network":"MTN","sessionID":"s-1","ussdString":"","ussdServiceOp":"INIT"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Welcome\n1. Transfer", resp.Message)
	assert.Equal(t, domain.RequestAskUserResponse, resp.ServiceOp)
	assert.Equal(t, domain.RequestInit, engine.got.Type)
}

func TestHandleRequest_Form(t *testing.T) {
	engine := &stubEngine{resp: &domain.Response{
		Message:   "Thank you.",
		ServiceOp: domain.RequestEnd,
		SessionID: "s-2",
	}}
	handler := NewHandler(engine, nil)

	form := url.Values{
		"msisdn":        {"233541234567"},
		"network":       {"VODAFONE"},
		"sessionID":     {"s-2"},
		"ussdString":    {"1"},
		"ussdServiceOp": {"USER_SENT_RESPONSE"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", engine.got.Response)
	assert.Equal(t, "VODAFONE", engine.got.Network)
}

func TestHandleRequest_RawRelay(t *testing.T) {
	raw := []byte(`{"message":"from the remote side","ussdServiceOp":"ASK_USER_RESPONSE"}`)
	engine := &stubEngine{resp: &domain.Response{
		Message:   "from the remote side",
		ServiceOp: domain.RequestAskUserResponse,
		SessionID: "s-3",
		Raw:       raw,
	}}
	handler := NewHandler(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"msisdn":"m","network":"n","sessionID":"s-3","ussdServiceOp":"USER_SENT_RESPONSE","ussdString":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// The relayed body must reach the gateway byte for byte.
	assert.Equal(t, string(raw), rr.Body.String())
}

func TestHealth(t *testing.T) {
	handler := NewHandler(&stubEngine{resp: &domain.Response{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
