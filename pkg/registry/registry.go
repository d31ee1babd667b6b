// Package registry holds the declarative menu graph and answers lookups for
// the kernel. Loading precedence: a YAML definition file wins; absent that, a
// previously exported JSON snapshot is used; with neither, the registry is
// empty and menu presence is inferred purely from registered entities.
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Registry is safe for concurrent lookups. Mutation methods exist for
// boot-time programmatic setup; per-session runtime mutation never touches
// the registry and is replayed from session metadata instead.
type Registry struct {
	mu    sync.RWMutex
	menus map[string]*domain.Menu

	entityPresence func(name string) bool
	logger         *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithEntityPresence wires the predicate that reports whether a menu exists
// programmatically (an entity is registered for it) without a declarative
// definition.
func WithEntityPresence(fn func(name string) bool) Option {
	return func(r *Registry) { r.entityPresence = fn }
}

// WithLogger configures the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		menus:  make(map[string]*domain.Menu),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadFrom builds a registry using the loading precedence. Either path may
// be empty or missing; an entirely implicit registry is valid.
func LoadFrom(menuPath, snapshotPath string, opts ...Option) (*Registry, error) {
	r := New(opts...)

	if menuPath != "" {
		data, err := os.ReadFile(menuPath)
		switch {
		case err == nil:
			if err := r.LoadYAML(data); err != nil {
				return nil, fmt.Errorf("loading menus from %s: %w", menuPath, err)
			}
			return r, nil
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading menu file %s: %w", menuPath, err)
		}
	}

	if snapshotPath != "" {
		data, err := os.ReadFile(snapshotPath)
		switch {
		case err == nil:
			if err := r.LoadSnapshot(data); err != nil {
				return nil, fmt.Errorf("loading menu snapshot from %s: %w", snapshotPath, err)
			}
			return r, nil
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading menu snapshot %s: %w", snapshotPath, err)
		}
	}

	r.logger.Info("no menu definition found, registry is entity-backed only")
	return r, nil
}

// Get returns the menu for name. Returns domain.ErrMenuNotFound when no
// declarative definition exists, even if an entity does.
func (r *Registry) Get(name string) (*domain.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	menu, ok := r.menus[name]
	if !ok {
		return nil, fmt.Errorf("menu %q: %w", name, domain.ErrMenuNotFound)
	}
	return menu, nil
}

// Has reports whether a menu exists, declaratively or programmatically.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	_, ok := r.menus[name]
	r.mu.RUnlock()
	if ok {
		return true
	}
	return r.entityPresence != nil && r.entityPresence(name)
}

// Put installs a menu definition, overwriting any previous one. Intended
// for boot-time programmatic graphs and tests.
func (r *Registry) Put(menu *domain.Menu) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[menu.Name] = menu
}

// InsertActions merges actions into a menu's declarative set. With replace
// set, the existing actions are discarded first. The menu must exist.
func (r *Registry) InsertActions(name string, actions *domain.Actions, replace bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	menu, ok := r.menus[name]
	if !ok {
		return fmt.Errorf("menu %q: %w", name, domain.ErrMenuNotFound)
	}
	if replace || menu.Actions == nil {
		menu.Actions = domain.NewActions()
	}
	menu.Actions.Merge(actions)
	return nil
}

// EmptyActions removes all actions from a menu.
func (r *Registry) EmptyActions(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	menu, ok := r.menus[name]
	if !ok {
		return fmt.Errorf("menu %q: %w", name, domain.ErrMenuNotFound)
	}
	menu.Actions = domain.NewActions()
	return nil
}

// Names returns the declaratively defined menu names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.menus))
	for name := range r.menus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExportSnapshot serializes the graph so it can be reloaded later without
// the YAML source.
func (r *Registry) ExportSnapshot(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	menus := make([]*domain.Menu, 0, len(r.menus))
	for _, name := range r.namesLocked() {
		menus = append(menus, r.menus[name])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(menus)
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.menus))
	for name := range r.menus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSnapshot restores a graph exported by ExportSnapshot.
func (r *Registry) LoadSnapshot(data []byte) error {
	var menus []*domain.Menu
	if err := json.Unmarshal(data, &menus); err != nil {
		return fmt.Errorf("parsing menu snapshot: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, menu := range menus {
		r.menus[menu.Name] = menu
	}
	return nil
}

// ValidateGraph checks every transition target: it must be a reserved name,
// a remote URL, or a known menu (declarative or entity-backed). It returns
// one error per broken link.
func (r *Registry) ValidateGraph() []error {
	r.mu.RLock()
	names := r.namesLocked()
	menus := make([]*domain.Menu, 0, len(names))
	for _, name := range names {
		menus = append(menus, r.menus[name])
	}
	r.mu.RUnlock()

	var errs []error
	check := func(from string, next domain.NextMenu) {
		if next.Name != "" && !domain.IsReserved(next.Name) && !next.IsURL() && !r.Has(next.Name) {
			errs = append(errs, fmt.Errorf("menu %q links to unknown menu %q", from, next.Name))
		}
		for _, later := range next.Later {
			if !domain.IsReserved(later) && !r.Has(later) {
				errs = append(errs, fmt.Errorf("menu %q queues unknown menu %q via later", from, later))
			}
		}
	}

	for _, menu := range menus {
		menu.Actions.Range(func(act *domain.Action) bool {
			check(menu.Name, act.Next)
			return true
		})
		if menu.DefaultNextMenu != "" {
			check(menu.Name, domain.NextMenu{Name: menu.DefaultNextMenu})
		}
	}
	return errs
}
