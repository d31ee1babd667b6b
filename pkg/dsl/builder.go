package dsl

import (
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/registry"
)

// Builder manages the menu graph construction.
type Builder struct {
	order []string
	menus map[string]*MenuBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		menus: make(map[string]*MenuBuilder),
	}
}

// Menu creates a new menu in the graph.
// If the menu already exists, it returns the existing builder.
func (b *Builder) Menu(name string) *MenuBuilder {
	if mb, ok := b.menus[name]; ok {
		return mb
	}
	mb := &MenuBuilder{
		menu:    domain.Menu{Name: name},
		builder: b,
	}
	b.order = append(b.order, name)
	b.menus[name] = mb
	return mb
}

// Build compiles the graph into a registry, ready for the engine.
func (b *Builder) Build(opts ...registry.Option) *registry.Registry {
	reg := registry.New(opts...)
	for _, name := range b.order {
		menu := b.menus[name].menu
		reg.Put(&menu)
	}
	return reg
}
