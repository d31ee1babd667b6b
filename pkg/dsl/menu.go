package dsl

import "github.com/rejoice-framework/menuflow/pkg/domain"

// MenuBuilder provides a fluent API for configuring a menu.
type MenuBuilder struct {
	menu    domain.Menu
	builder *Builder
}

// Line appends a line to the menu's message body.
func (m *MenuBuilder) Line(text string) *MenuBuilder {
	m.menu.Message = append(m.menu.Message, text)
	return m
}

// Option adds a simple action: trigger selects it, display is the line
// shown on the screen, next is the destination menu.
func (m *MenuBuilder) Option(trigger, display, next string) *MenuBuilder {
	return m.Action(domain.Action{
		Trigger: trigger,
		Display: display,
		Next:    domain.NextMenu{Name: next},
	})
}

// Action adds a fully specified action, for save_as, forced-flow queues or
// per-action validation rules.
func (m *MenuBuilder) Action(act domain.Action) *MenuBuilder {
	if m.menu.Actions == nil {
		m.menu.Actions = domain.NewActions()
	}
	m.menu.Actions.Set(act)
	return m
}

// Default sets the destination taken when no action matches the response.
func (m *MenuBuilder) Default(next string) *MenuBuilder {
	m.menu.DefaultNextMenu = next
	return m
}

// Validate attaches a validation rule to free-form responses on this menu.
// Message, when non-empty, overrides the rule's default error text.
func (m *MenuBuilder) Validate(name, param, message string) *MenuBuilder {
	m.menu.Validate = append(m.menu.Validate, domain.Rule{
		Name: name, Param: param, Message: message,
	})
	return m
}

// Terminal clears every outgoing edge, marking the menu as an end of the
// conversation.
func (m *MenuBuilder) Terminal() *MenuBuilder {
	m.menu.Actions = nil
	m.menu.DefaultNextMenu = ""
	return m
}

// Build returns the underlying domain.Menu.
// This is primarily used by the Builder, but exposed for advanced usage.
func (m *MenuBuilder) Build() domain.Menu {
	return m.menu
}
