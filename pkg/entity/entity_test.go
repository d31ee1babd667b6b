package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

type fullEntity struct{}

func (fullEntity) Before(ctx context.Context, call *Call) error { return nil }
func (fullEntity) Message(ctx context.Context, call *Call) (any, error) {
	return "hello", nil
}
func (fullEntity) Actions(ctx context.Context, call *Call) (*domain.Actions, error) {
	return domain.NewActions(), nil
}
func (fullEntity) Validate(ctx context.Context, call *Call, response string) (ValidationResult, error) {
	return Valid(), nil
}
func (fullEntity) SaveAs(ctx context.Context, call *Call, response string) (string, error) {
	return response, nil
}
func (fullEntity) After(ctx context.Context, call *Call, response string) error { return nil }
func (fullEntity) OnMoveToNextMenu(ctx context.Context, call *Call, response string) error {
	return nil
}
func (fullEntity) OnBack(ctx context.Context, call *Call) error            { return nil }
func (fullEntity) OnPaginateForward(ctx context.Context, call *Call) error { return nil }
func (fullEntity) OnPaginateBack(ctx context.Context, call *Call) error    { return nil }
func (fullEntity) DefaultNextMenu(call *Call) (domain.NextMenu, bool) {
	return domain.NextMenu{Name: "next"}, true
}

type messageOnlyEntity struct{}

func (messageOnlyEntity) Message(ctx context.Context, call *Call) (any, error) {
	return "only a message", nil
}

func TestBind_DetectsCapabilities(t *testing.T) {
	full := Bind(fullEntity{})
	assert.NotNil(t, full.Before)
	assert.NotNil(t, full.Message)
	assert.NotNil(t, full.Actions)
	assert.NotNil(t, full.Validate)
	assert.NotNil(t, full.SaveAs)
	assert.NotNil(t, full.After)
	assert.NotNil(t, full.OnMoveToNextMenu)
	assert.NotNil(t, full.OnBack)
	assert.NotNil(t, full.OnPaginateForward)
	assert.NotNil(t, full.OnPaginateBack)
	assert.NotNil(t, full.DefaultNextMenu)

	partial := Bind(messageOnlyEntity{})
	assert.NotNil(t, partial.Message)
	assert.Nil(t, partial.Before)
	assert.Nil(t, partial.Validate)
	assert.Nil(t, partial.DefaultNextMenu)

	empty := Bind(nil)
	assert.Nil(t, empty.Message)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Has("enterName"))

	reg.Register("enterName", func() any { return messageOnlyEntity{} })
	assert.True(t, reg.Has("enterName"))

	hooks := reg.Bind("enterName")
	require.NotNil(t, hooks.Message)

	// Unregistered menus bind to an empty, safe capability set.
	hooks = reg.Bind("missing")
	assert.Nil(t, hooks.Message)
}

func TestCall_TerminationSignal(t *testing.T) {
	session := domain.NewSessionState(time.Now())
	call := NewCall(&domain.Request{}, session, nil)

	assert.False(t, call.Terminated())

	call.SoftEnd("bye")
	require.True(t, call.Terminated())
	assert.False(t, call.TerminationHard())
	assert.Equal(t, "bye", call.TerminationMessage())

	call.HardEnd("gone")
	assert.True(t, call.TerminationHard())
	assert.Equal(t, "gone", call.TerminationMessage())
}

func TestCall_SessionAccess(t *testing.T) {
	session := domain.NewSessionState(time.Now())
	session.CurrentMenu = "enterAge"
	session.LogResponse("enterName", "Amy")
	call := NewCall(&domain.Request{Msisdn: "233541234567"}, session, nil)

	assert.Equal(t, "enterAge", call.CurrentMenu())
	assert.Equal(t, "233541234567", call.Request().Msisdn)

	last, ok := call.LastResponse("enterName")
	require.True(t, ok)
	assert.Equal(t, "Amy", last)

	call.Set("lang", "en")
	v, ok := call.Get("lang")
	require.True(t, ok)
	assert.Equal(t, "en", v)

	call.Later("confirm", "receipt")
	assert.Equal(t, []string{"confirm", "receipt"}, session.ForcedFlow)

	acts := domain.NewActions()
	acts.Set(domain.Action{Trigger: "1", Display: "Yes", Next: domain.NextMenu{Name: "yes"}})
	call.InsertActions("confirm", acts, false)
	require.Len(t, session.ActionOverrides, 1)
	assert.Equal(t, "confirm", session.ActionOverrides[0].Menu)
	assert.False(t, session.ActionOverrides[0].Replace)

	call.EmptyActions("confirm")
	require.Len(t, session.ActionOverrides, 2)
	assert.True(t, session.ActionOverrides[1].Replace)
	assert.Equal(t, 0, session.ActionOverrides[1].Actions.Len())
}
