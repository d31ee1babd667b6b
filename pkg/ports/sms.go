package ports

import "context"

// SMSSender delivers out-of-band text messages: the SMS fallback captured on
// terminal screens, and admin alerts raised on fatal errors. Sending is
// best-effort and must never block the primary response path.
type SMSSender interface {
	Send(ctx context.Context, to, text string) error
}
