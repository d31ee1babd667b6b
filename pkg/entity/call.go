package entity

import (
	"log/slog"

	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/pkg/domain"
)

type endKind int

const (
	endNone endKind = iota
	endSoft
	endHard
)

// Call is the per-request scope handed to every hook. It exposes the inbound
// request, the session's developer namespace and response logs, and the
// explicit termination signal that replaces process-exit as control flow:
// a hook calls HardEnd or SoftEnd, returns, and the kernel short-circuits
// the remaining pipeline steps deterministically.
type Call struct {
	request *domain.Request
	session *domain.SessionState
	logger  *slog.Logger

	endKind    endKind
	endMessage string
}

// NewCall builds the hook scope for one request. It is exported for tests
// and for hosts that drive the kernel directly.
func NewCall(req *domain.Request, session *domain.SessionState, logger *slog.Logger) *Call {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Call{request: req, session: session, logger: logger}
}

// Request returns the inbound request being processed.
func (c *Call) Request() *domain.Request { return c.request }

// Logger returns the request-scoped logger.
func (c *Call) Logger() *slog.Logger { return c.logger }

// CurrentMenu returns the menu the session is on.
func (c *Call) CurrentMenu() string { return c.session.CurrentMenu }

// Get reads a value from the session's developer namespace.
func (c *Call) Get(key string) (any, bool) {
	v, ok := c.session.Developer[key]
	return v, ok
}

// Set writes a value into the session's developer namespace.
func (c *Call) Set(key string, value any) {
	if c.session.Developer == nil {
		c.session.Developer = make(map[string]any)
	}
	c.session.Developer[key] = value
}

// Responses returns the previous responses logged for a menu, oldest first.
func (c *Call) Responses(menu string) []string {
	return c.session.Responses(menu)
}

// LastResponse returns the most recent response logged for a menu.
func (c *Call) LastResponse(menu string) (string, bool) {
	return c.session.LastResponse(menu)
}

// InsertActions records a session-scoped action mutation for a menu. The
// override applies from the next screen computation onward and is replayed
// automatically on subsequent requests of the same session; the shared
// registry is never touched. With replace set, the menu's declarative
// actions are discarded first.
func (c *Call) InsertActions(menu string, actions *domain.Actions, replace bool) {
	c.session.ActionOverrides = append(c.session.ActionOverrides, domain.ActionOverride{
		Menu:    menu,
		Replace: replace,
		Actions: actions.Clone(),
	})
}

// EmptyActions discards a menu's actions for the rest of the session.
func (c *Call) EmptyActions(menu string) {
	c.session.ActionOverrides = append(c.session.ActionOverrides, domain.ActionOverride{
		Menu:    menu,
		Replace: true,
		Actions: domain.NewActions(),
	})
}

// Later queues menus into the forced flow, to be visited next regardless of
// normal resolution.
func (c *Call) Later(menus ...string) {
	c.session.EnqueueForced(menus...)
}

// SoftEnd requests a flow end after the current hook returns. The session
// document is preserved.
func (c *Call) SoftEnd(message string) {
	c.endKind = endSoft
	c.endMessage = message
}

// HardEnd requests a flow end after the current hook returns and wipes the
// session.
func (c *Call) HardEnd(message string) {
	c.endKind = endHard
	c.endMessage = message
}

// Terminated reports whether a hook requested an end.
func (c *Call) Terminated() bool { return c.endKind != endNone }

// TerminationHard reports whether the requested end wipes the session.
func (c *Call) TerminationHard() bool { return c.endKind == endHard }

// TerminationMessage returns the message of the requested end.
func (c *Call) TerminationMessage() string { return c.endMessage }
