package domain

import "encoding/json"

// Actions is an insertion-ordered set of actions keyed by trigger. Order is
// significant: screens enumerate actions in the order they were declared,
// and overriding an existing trigger keeps its original position.
type Actions struct {
	order     []string
	byTrigger map[string]*Action
}

// NewActions returns an empty action set.
func NewActions() *Actions {
	return &Actions{byTrigger: make(map[string]*Action)}
}

// Set inserts or replaces the action for its trigger. A replaced trigger
// keeps the position of its first declaration.
func (a *Actions) Set(act Action) {
	if a.byTrigger == nil {
		a.byTrigger = make(map[string]*Action)
	}
	if _, exists := a.byTrigger[act.Trigger]; !exists {
		a.order = append(a.order, act.Trigger)
	}
	stored := act
	a.byTrigger[act.Trigger] = &stored
}

// Get returns the action for trigger, if any.
func (a *Actions) Get(trigger string) (*Action, bool) {
	if a == nil || a.byTrigger == nil {
		return nil, false
	}
	act, ok := a.byTrigger[trigger]
	return act, ok
}

// Len returns the number of actions.
func (a *Actions) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Range calls fn for each action in insertion order until fn returns false.
func (a *Actions) Range(fn func(act *Action) bool) {
	if a == nil {
		return
	}
	for _, trigger := range a.order {
		if !fn(a.byTrigger[trigger]) {
			return
		}
	}
}

// Triggers returns the triggers in insertion order.
func (a *Actions) Triggers() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.order...)
}

// Merge folds other into a. Existing triggers are overwritten in place,
// keeping first-declaration order; new triggers are appended.
func (a *Actions) Merge(other *Actions) {
	if other == nil {
		return
	}
	other.Range(func(act *Action) bool {
		a.Set(*act)
		return true
	})
}

// Clone returns a deep copy.
func (a *Actions) Clone() *Actions {
	if a == nil {
		return nil
	}
	out := NewActions()
	a.Range(func(act *Action) bool {
		out.Set(*act)
		return true
	})
	return out
}

// HasBack reports whether any action leads to the reserved back destination.
// The paginator uses this to decide whether split screens must synthesize
// their own back line.
func (a *Actions) HasBack() bool {
	found := false
	a.Range(func(act *Action) bool {
		if act.Next.Name == MenuBack {
			found = true
			return false
		}
		return true
	})
	return found
}

// MarshalJSON encodes the set as an ordered array so the on-disk session
// document round-trips without losing declaration order.
func (a *Actions) MarshalJSON() ([]byte, error) {
	acts := make([]Action, 0, a.Len())
	a.Range(func(act *Action) bool {
		acts = append(acts, *act)
		return true
	})
	return json.Marshal(acts)
}

// UnmarshalJSON decodes the ordered-array form produced by MarshalJSON.
func (a *Actions) UnmarshalJSON(data []byte) error {
	var acts []Action
	if err := json.Unmarshal(data, &acts); err != nil {
		return err
	}
	a.order = nil
	a.byTrigger = make(map[string]*Action)
	for _, act := range acts {
		a.Set(act)
	}
	return nil
}
