package ports

import (
	"context"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Forwarder relays a request to a remote application endpoint when a session
// has been switched out of the local graph. The returned bytes are the remote
// response body, relayed to the caller verbatim. There is no retry: a failed
// call surfaces its error text as the response so the operator can see the
// remote side's fault.
type Forwarder interface {
	Forward(ctx context.Context, endpoint string, req *domain.Request) ([]byte, error)
}
