// Package httpfwd relays requests to a remote application over HTTP once a
// session has been switched out of the local menu graph.
package httpfwd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Forwarder implements ports.Forwarder by POSTing the wire-format request
// to the endpoint and returning the raw response body.
type Forwarder struct {
	client *http.Client

	// MaxBody bounds how much of the remote body is read.
	MaxBody int64
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithClient sets the HTTP client, e.g. to tune its timeout.
func WithClient(client *http.Client) Option {
	return func(f *Forwarder) { f.client = client }
}

// New returns a forwarder with a 30 second request timeout.
func New(opts ...Option) *Forwarder {
	f := &Forwarder{
		client:  &http.Client{Timeout: 30 * time.Second},
		MaxBody: 1 << 20,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forward posts the request to the endpoint and returns the response body.
// Any transport or status failure is returned as an error; the engine
// surfaces it verbatim.
func (f *Forwarder) Forward(ctx context.Context, endpoint string, req *domain.Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request to %s: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBody))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s responded %s", endpoint, resp.Status)
	}
	return body, nil
}
