// Package sms delivers out-of-band text messages through an HTTP SMS
// gateway: terminal-screen fallbacks to subscribers and fatal-error alerts
// to the admin number.
package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender implements ports.SMSSender against a form-POST SMS gateway.
type Sender struct {
	endpoint string
	sender   string
	client   *http.Client
}

// Option configures a Sender.
type Option func(*Sender)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(s *Sender) { s.client = client }
}

// New builds a sender for a gateway endpoint. senderID is the originating
// address shown to recipients.
func New(endpoint, senderID string, opts ...Option) *Sender {
	s := &Sender{
		endpoint: endpoint,
		sender:   senderID,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts one message to the gateway.
func (s *Sender) Send(ctx context.Context, to, text string) error {
	form := url.Values{
		"sender":  {s.sender},
		"to":      {to},
		"message": {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway responded %s", resp.Status)
	}
	return nil
}
