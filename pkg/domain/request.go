package domain

import "fmt"

// Channel identifies the transport medium of a request. Only USSD enforces
// screen budgets; WhatsApp and console screens are unbounded.
type Channel string

const (
	ChannelUSSD     Channel = "USSD"
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelConsole  Channel = "CONSOLE"
)

// Bounded reports whether rendered screens on this channel must respect the
// character and line budgets.
func (c Channel) Bounded() bool {
	return c == ChannelUSSD || c == ""
}

// RequestType is a wire-stable request/response code. The same codes are used
// in both directions: inbound they describe what the gateway is delivering,
// outbound they tell the gateway whether more input is expected.
type RequestType string

const (
	RequestInit             RequestType = "INIT"
	RequestEnd              RequestType = "END"
	RequestCancelled        RequestType = "CANCELLED"
	RequestAskUserResponse  RequestType = "ASK_USER_RESPONSE"
	RequestUserSentResponse RequestType = "USER_SENT_RESPONSE"
)

// Request is the normalized inbound request handed to the kernel by the
// transport layer.
type Request struct {
	Msisdn    string      `json:"msisdn"`
	Network   string      `json:"network"`
	SessionID string      `json:"sessionID"`
	Response  string      `json:"ussdString"`
	Type      RequestType `json:"ussdServiceOp"`
	Channel   Channel     `json:"channel,omitempty"`
}

// Validate checks that every required field is present. A request missing any
// of them cannot be processed and must be rejected before the pipeline runs.
func (r *Request) Validate() error {
	switch {
	case r.Msisdn == "":
		return fmt.Errorf("request is missing the subscriber msisdn")
	case r.Network == "":
		return fmt.Errorf("request is missing the network identifier")
	case r.SessionID == "":
		return fmt.Errorf("request is missing the session id")
	case r.Type == "":
		return fmt.Errorf("request is missing the request type")
	}
	switch r.Type {
	case RequestInit, RequestEnd, RequestCancelled, RequestAskUserResponse, RequestUserSentResponse:
	default:
		return fmt.Errorf("unknown request type %q", r.Type)
	}
	switch r.Channel {
	case "", ChannelUSSD, ChannelWhatsApp, ChannelConsole:
	default:
		return fmt.Errorf("unknown channel %q", r.Channel)
	}
	return nil
}
