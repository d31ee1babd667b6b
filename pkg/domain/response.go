package domain

// Response is the wire payload emitted back to the gateway.
//
// The diagnostic arrays are populated only outside production builds; in
// production they are always empty and elided from the JSON document.
type Response struct {
	Message   string      `json:"message"`
	ServiceOp RequestType `json:"ussdServiceOp"`
	SessionID string      `json:"sessionID"`

	Warnings []string `json:"WARNING,omitempty"`
	Infos    []string `json:"INFO,omitempty"`
	Errors   []string `json:"ERROR,omitempty"`

	// Raw, when set, is written to the transport verbatim instead of the
	// JSON encoding of this struct. It carries relayed bodies from a
	// remote endpoint the session has been switched to.
	Raw []byte `json:"-"`
}

// Continues reports whether the flow expects further input from the user.
func (r *Response) Continues() bool {
	return r.ServiceOp == RequestAskUserResponse
}
