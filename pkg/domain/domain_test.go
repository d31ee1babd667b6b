package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActions_OrderPreserved(t *testing.T) {
	acts := NewActions()
	acts.Set(Action{Trigger: "2", Display: "Second", Next: NextMenu{Name: "b"}})
	acts.Set(Action{Trigger: "1", Display: "First", Next: NextMenu{Name: "a"}})
	acts.Set(Action{Trigger: "0", Display: "Back", Next: NextMenu{Name: MenuBack}})

	assert.Equal(t, []string{"2", "1", "0"}, acts.Triggers())

	// Overriding keeps the position of the first declaration.
	acts.Set(Action{Trigger: "2", Display: "Changed", Next: NextMenu{Name: "c"}})
	assert.Equal(t, []string{"2", "1", "0"}, acts.Triggers())

	act, ok := acts.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Changed", act.Display)
	assert.Equal(t, "c", act.Next.Name)
}

func TestActions_Merge(t *testing.T) {
	base := NewActions()
	base.Set(Action{Trigger: "1", Display: "One", Next: NextMenu{Name: "one"}})
	base.Set(Action{Trigger: "2", Display: "Two", Next: NextMenu{Name: "two"}})

	overlay := NewActions()
	overlay.Set(Action{Trigger: "2", Display: "Two (changed)", Next: NextMenu{Name: "elsewhere"}})
	overlay.Set(Action{Trigger: "3", Display: "Three", Next: NextMenu{Name: "three"}})

	base.Merge(overlay)

	assert.Equal(t, []string{"1", "2", "3"}, base.Triggers())
	act, _ := base.Get("2")
	assert.Equal(t, "elsewhere", act.Next.Name)
}

func TestActions_HasBack(t *testing.T) {
	acts := NewActions()
	acts.Set(Action{Trigger: "1", Next: NextMenu{Name: "somewhere"}})
	assert.False(t, acts.HasBack())

	acts.Set(Action{Trigger: "0", Next: NextMenu{Name: MenuBack}})
	assert.True(t, acts.HasBack())
}

func TestActions_JSONRoundTrip(t *testing.T) {
	acts := NewActions()
	acts.Set(Action{Trigger: "9", Display: "Nine", Next: NextMenu{Name: "nine"}})
	acts.Set(Action{Trigger: "1", Display: "One", Next: NextMenu{Name: "one", Later: []string{"after"}}})

	data, err := json.Marshal(acts)
	require.NoError(t, err)

	decoded := NewActions()
	require.NoError(t, json.Unmarshal(data, decoded))

	assert.Equal(t, []string{"9", "1"}, decoded.Triggers())
	act, ok := decoded.Get("1")
	require.True(t, ok)
	assert.Equal(t, []string{"after"}, act.Next.Later)
}

func TestSessionState_History(t *testing.T) {
	s := NewSessionState(time.Now())

	s.PushHistory("welcome")
	s.PushHistory("menu_a")

	top, ok := s.HistoryTop()
	require.True(t, ok)
	assert.Equal(t, "menu_a", top)

	popped, ok := s.PopHistory()
	require.True(t, ok)
	assert.Equal(t, "menu_a", popped)

	popped, ok = s.PopHistory()
	require.True(t, ok)
	assert.Equal(t, "welcome", popped)

	_, ok = s.PopHistory()
	assert.False(t, ok)
}

func TestSessionState_ForcedFlow(t *testing.T) {
	s := NewSessionState(time.Now())
	s.EnqueueForced("a", "b")

	head, ok := s.DequeueForced()
	require.True(t, ok)
	assert.Equal(t, "a", head)

	head, ok = s.DequeueForced()
	require.True(t, ok)
	assert.Equal(t, "b", head)

	_, ok = s.DequeueForced()
	assert.False(t, ok)
}

func TestSessionState_ResponsesLog(t *testing.T) {
	s := NewSessionState(time.Now())
	s.LogResponse("enterName", "Amy")
	s.LogResponse("enterName", "Bob")

	last, ok := s.LastResponse("enterName")
	require.True(t, ok)
	assert.Equal(t, "Bob", last)

	s.PopResponse("enterName")
	last, ok = s.LastResponse("enterName")
	require.True(t, ok)
	assert.Equal(t, "Amy", last)

	assert.Equal(t, []string{"Amy"}, s.Responses("enterName"))
}

func TestSessionState_Expired(t *testing.T) {
	now := time.Now()
	s := NewSessionState(now.Add(-2 * time.Minute))

	assert.True(t, s.Expired(time.Minute, now))
	assert.False(t, s.Expired(5*time.Minute, now))
	assert.False(t, s.Expired(0, now), "zero lifetime disables expiry")
}

func TestPaginationState_Walk(t *testing.T) {
	p := &PaginationState{Chunks: []string{"one", "two", "three"}}

	assert.True(t, p.AtStart())
	assert.False(t, p.AtEnd())

	chunk, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "two", chunk)

	chunk, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, "three", chunk)
	assert.True(t, p.AtEnd())

	_, err = p.Next()
	var stateErr *PaginationStateError
	require.ErrorAs(t, err, &stateErr)

	chunk, err = p.Back()
	require.NoError(t, err)
	assert.Equal(t, "two", chunk)

	chunk, err = p.Back()
	require.NoError(t, err)
	assert.Equal(t, "one", chunk)

	_, err = p.Back()
	require.ErrorAs(t, err, &stateErr)
}

func TestNextMenu_IsURL(t *testing.T) {
	assert.True(t, NextMenu{Name: "https://other-app.example/ussd"}.IsURL())
	assert.True(t, NextMenu{Name: "http://other-app.example/ussd"}.IsURL())
	assert.False(t, NextMenu{Name: "enterName"}.IsURL())
}

func TestRequest_Validate(t *testing.T) {
	valid := Request{
		Msisdn:    "233541234567",
		Network:   "MTN",
		SessionID: "sess-1",
		Type:      RequestInit,
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.Msisdn = ""
	assert.Error(t, missing.Validate())

	badType := valid
	badType.Type = "BOGUS"
	assert.Error(t, badType.Validate())

	badChannel := valid
	badChannel.Channel = "SMOKE_SIGNAL"
	assert.Error(t, badChannel.Validate())
}
