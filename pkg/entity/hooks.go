// Package entity defines the contract between the engine and user-supplied
// menu code. A menu entity is any value; the engine detects which lifecycle
// hooks it implements by checking, once at bind time, which of the optional
// capability interfaces it satisfies.
package entity

import (
	"context"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Beforer runs before a menu's screen is computed. It may end the session
// early through the call's HardEnd/SoftEnd; the engine checks for a pending
// termination right after the hook returns.
type Beforer interface {
	Before(ctx context.Context, call *Call) error
}

// Messager contributes to the screen message. The returned value must be a
// string, a []string of lines, or a map[string]string / map[string]any used
// as :key:-delimited placeholder substitutions into the declarative message.
// Any other type is a contract violation and aborts the request.
type Messager interface {
	Message(ctx context.Context, call *Call) (any, error)
}

// Actioner contributes actions, merged over the declarative set. Entity
// values override declarative ones by trigger, but the order of first
// declaration is preserved.
type Actioner interface {
	Actions(ctx context.Context, call *Call) (*domain.Actions, error)
}

// ValidationResult reports the outcome of a Validate hook.
type ValidationResult struct {
	OK      bool
	Message string
}

// Valid is a passing ValidationResult.
func Valid() ValidationResult { return ValidationResult{OK: true} }

// Invalid is a failing ValidationResult carrying the user-facing message.
func Invalid(message string) ValidationResult {
	return ValidationResult{Message: message}
}

// Validator vets a free-form response before the move it resolved to is
// allowed. It never runs for responses that matched an explicit action or
// resolved to a reserved destination.
type Validator interface {
	Validate(ctx context.Context, call *Call, response string) (ValidationResult, error)
}

// Saver transforms the response before it is logged into the session's
// previous-responses. An action-level save_as always wins over this hook.
type Saver interface {
	SaveAs(ctx context.Context, call *Call, response string) (string, error)
}

// Afterer runs after the response has been validated and logged, before any
// movement hook fires.
type Afterer interface {
	After(ctx context.Context, call *Call, response string) error
}

// NextMenuListener fires when the session moves to a genuinely new menu or
// is handed off to a remote endpoint.
type NextMenuListener interface {
	OnMoveToNextMenu(ctx context.Context, call *Call, response string) error
}

// BackListener fires when the user navigates back.
type BackListener interface {
	OnBack(ctx context.Context, call *Call) error
}

// PaginateForwardListener fires when the user pages forward on a split screen.
type PaginateForwardListener interface {
	OnPaginateForward(ctx context.Context, call *Call) error
}

// PaginateBackListener fires when the user pages back on a split screen.
type PaginateBackListener interface {
	OnPaginateBack(ctx context.Context, call *Call) error
}

// DefaultNexter supplies the fallback destination when nothing else
// resolved. Returning false means no default.
type DefaultNexter interface {
	DefaultNextMenu(call *Call) (domain.NextMenu, bool)
}

// Hooks caches the capability set of one entity value. Nil fields mean the
// entity does not implement that hook; detection happens exactly once, in
// Bind, never per call.
type Hooks struct {
	Before            func(ctx context.Context, call *Call) error
	Message           func(ctx context.Context, call *Call) (any, error)
	Actions           func(ctx context.Context, call *Call) (*domain.Actions, error)
	Validate          func(ctx context.Context, call *Call, response string) (ValidationResult, error)
	SaveAs            func(ctx context.Context, call *Call, response string) (string, error)
	After             func(ctx context.Context, call *Call, response string) error
	OnMoveToNextMenu  func(ctx context.Context, call *Call, response string) error
	OnBack            func(ctx context.Context, call *Call) error
	OnPaginateForward func(ctx context.Context, call *Call) error
	OnPaginateBack    func(ctx context.Context, call *Call) error
	DefaultNextMenu   func(call *Call) (domain.NextMenu, bool)
}

// Bind inspects v and returns its cached capability set. Binding nil returns
// an empty (all-nil) Hooks, which is safe to use.
func Bind(v any) *Hooks {
	h := &Hooks{}
	if v == nil {
		return h
	}
	if i, ok := v.(Beforer); ok {
		h.Before = i.Before
	}
	if i, ok := v.(Messager); ok {
		h.Message = i.Message
	}
	if i, ok := v.(Actioner); ok {
		h.Actions = i.Actions
	}
	if i, ok := v.(Validator); ok {
		h.Validate = i.Validate
	}
	if i, ok := v.(Saver); ok {
		h.SaveAs = i.SaveAs
	}
	if i, ok := v.(Afterer); ok {
		h.After = i.After
	}
	if i, ok := v.(NextMenuListener); ok {
		h.OnMoveToNextMenu = i.OnMoveToNextMenu
	}
	if i, ok := v.(BackListener); ok {
		h.OnBack = i.OnBack
	}
	if i, ok := v.(PaginateForwardListener); ok {
		h.OnPaginateForward = i.OnPaginateForward
	}
	if i, ok := v.(PaginateBackListener); ok {
		h.OnPaginateBack = i.OnPaginateBack
	}
	if i, ok := v.(DefaultNexter); ok {
		h.DefaultNextMenu = i.DefaultNextMenu
	}
	return h
}
