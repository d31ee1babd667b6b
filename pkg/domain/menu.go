package domain

import "strings"

// Rule is a single validation constraint attached to a menu or an action.
// The optional Message overrides the rule's default error text, so custom
// errors travel with the rule instead of living in shared mutable state.
type Rule struct {
	Name    string `json:"name" yaml:"name"`
	Param   string `json:"param,omitempty" yaml:"param,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// NextMenu describes where an action leads. Later holds menu names queued
// into the session's forced flow once the move happens.
type NextMenu struct {
	Name  string   `json:"name"`
	Later []string `json:"later,omitempty"`
}

// IsURL reports whether the destination is a remote application handoff
// rather than a local menu.
func (n NextMenu) IsURL() bool {
	return strings.HasPrefix(n.Name, "http://") || strings.HasPrefix(n.Name, "https://")
}

// Action maps a user-visible trigger (e.g. "1", "0", "00") to a destination.
type Action struct {
	Trigger string   `json:"trigger"`
	Display string   `json:"display"`
	Next    NextMenu `json:"next_menu"`

	// SaveAs, when declared, is stored into the previous-responses log in
	// place of the raw keystroke. HasSaveAs distinguishes an explicit empty
	// value from an absent one.
	SaveAs    string `json:"save_as,omitempty"`
	HasSaveAs bool   `json:"has_save_as,omitempty"`

	// Validate rules declared directly on the action apply to the response
	// that selected it.
	Validate []Rule `json:"validate,omitempty"`
}

// Menu is a named vertex of the conversation graph. A menu with no actions,
// no default next menu and no entity-provided default is terminal.
type Menu struct {
	Name            string   `json:"name"`
	Message         []string `json:"message,omitempty"`
	Actions         *Actions `json:"actions,omitempty"`
	DefaultNextMenu string   `json:"default_next_menu,omitempty"`
	Validate        []Rule   `json:"validate,omitempty"`
}

// Clone returns a deep copy. The kernel clones menus before applying
// session-scoped action overrides so the shared registry is never mutated.
func (m *Menu) Clone() *Menu {
	if m == nil {
		return nil
	}
	out := *m
	out.Message = append([]string(nil), m.Message...)
	out.Validate = append([]Rule(nil), m.Validate...)
	out.Actions = m.Actions.Clone()
	return &out
}
