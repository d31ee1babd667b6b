package domain

import "time"

// ActionOverride records a runtime action mutation applied during a session.
// Overrides are replayed against the declarative menu at the start of every
// request, so programmatic customization survives round-trips without ever
// touching the shared registry.
type ActionOverride struct {
	Menu    string   `json:"menu"`
	Replace bool     `json:"replace"`
	Actions *Actions `json:"actions"`
}

// SessionState is the persisted session document, keyed by subscriber
// msisdn. It replaces an open key/value bag with explicit fields for the
// framework metadata and a developer-owned namespace.
type SessionState struct {
	// CurrentMenu is the menu the user is currently on.
	CurrentMenu string `json:"current_menu"`

	// History is the back-navigation stack of menu names, oldest first.
	// Its top entry is never the current menu.
	History []string `json:"history,omitempty"`

	// Pagination holds the split-screen state when the current screen
	// overflowed the channel budget, nil otherwise.
	Pagination *PaginationState `json:"pagination,omitempty"`

	// ForcedFlow is the queue of menu names that take precedence over
	// normal flow resolution, consumed one per transition.
	ForcedFlow []string `json:"forced_flow,omitempty"`

	// PreviousResponses logs, per menu name, the responses the user
	// submitted there (after save-as transformation).
	PreviousResponses map[string][]string `json:"previous_responses,omitempty"`

	// Developer is the namespace entity code reads and writes freely.
	Developer map[string]any `json:"developer,omitempty"`

	// ActionOverrides are the session-scoped runtime action mutations.
	ActionOverrides []ActionOverride `json:"action_overrides,omitempty"`

	// RemoteEndpoint, when set, flags the session as switched to a remote
	// application: every subsequent request is forwarded there verbatim.
	RemoteEndpoint string `json:"remote_endpoint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// IsNew is derived at load time: true when no prior data was found or
	// expiry forced re-initialization. Never persisted.
	IsNew bool `json:"-"`
}

// NewSessionState returns a fresh session document.
func NewSessionState(now time.Time) *SessionState {
	return &SessionState{
		PreviousResponses: make(map[string][]string),
		Developer:         make(map[string]any),
		CreatedAt:         now,
		UpdatedAt:         now,
		IsNew:             true,
	}
}

// Expired reports whether the session is older than lifetime. A zero
// lifetime disables expiry.
func (s *SessionState) Expired(lifetime time.Duration, now time.Time) bool {
	if lifetime <= 0 {
		return false
	}
	return now.Sub(s.UpdatedAt) > lifetime
}

// PushHistory pushes a menu name onto the back stack.
func (s *SessionState) PushHistory(menu string) {
	s.History = append(s.History, menu)
}

// PopHistory removes and returns the top of the back stack.
func (s *SessionState) PopHistory() (string, bool) {
	if len(s.History) == 0 {
		return "", false
	}
	top := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return top, true
}

// HistoryTop returns the top of the back stack without removing it.
func (s *SessionState) HistoryTop() (string, bool) {
	if len(s.History) == 0 {
		return "", false
	}
	return s.History[len(s.History)-1], true
}

// EnqueueForced appends menu names to the forced-flow queue.
func (s *SessionState) EnqueueForced(menus ...string) {
	s.ForcedFlow = append(s.ForcedFlow, menus...)
}

// PeekForced returns the head of the forced-flow queue without consuming
// it. Resolution peeks; the entry is consumed only once the move commits.
func (s *SessionState) PeekForced() (string, bool) {
	if len(s.ForcedFlow) == 0 {
		return "", false
	}
	return s.ForcedFlow[0], true
}

// DequeueForced removes and returns the head of the forced-flow queue.
func (s *SessionState) DequeueForced() (string, bool) {
	if len(s.ForcedFlow) == 0 {
		return "", false
	}
	head := s.ForcedFlow[0]
	s.ForcedFlow = s.ForcedFlow[1:]
	return head, true
}

// LogResponse records a (possibly transformed) response against a menu.
func (s *SessionState) LogResponse(menu, response string) {
	if s.PreviousResponses == nil {
		s.PreviousResponses = make(map[string][]string)
	}
	s.PreviousResponses[menu] = append(s.PreviousResponses[menu], response)
}

// PopResponse discards the most recent response logged for a menu. Used when
// navigating back so re-submitting does not stack duplicates.
func (s *SessionState) PopResponse(menu string) {
	log := s.PreviousResponses[menu]
	if len(log) == 0 {
		return
	}
	s.PreviousResponses[menu] = log[:len(log)-1]
}

// Responses returns the log of responses submitted on a menu, oldest first.
func (s *SessionState) Responses(menu string) []string {
	return s.PreviousResponses[menu]
}

// LastResponse returns the most recent response logged for a menu.
func (s *SessionState) LastResponse(menu string) (string, bool) {
	log := s.PreviousResponses[menu]
	if len(log) == 0 {
		return "", false
	}
	return log[len(log)-1], true
}

// Reset wipes everything back to a fresh document, preserving CreatedAt.
func (s *SessionState) Reset(now time.Time) {
	created := s.CreatedAt
	*s = *NewSessionState(now)
	if !created.IsZero() {
		s.CreatedAt = created
	}
}
