package core

// ComponentID is the small integer handle of a registered component type.
// IDs are reused after a type is unregistered; handles are not.
type ComponentID uint16

// Capability records which optional hooks a definition provides
type Capability uint8

const (
	CapAttach Capability = 1 << iota
	CapDetach
	CapTick
	CapRender
)

// Has reports whether every capability in o is present
func (c Capability) Has(o Capability) bool { return c&o == o }

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	s := ""
	for _, p := range []struct {
		c    Capability
		name string
	}{{CapAttach, "attach"}, {CapDetach, "detach"}, {CapTick, "tick"}, {CapRender, "render"}} {
		if c.Has(p.c) {
			if s != "" {
				s += "|"
			}
			s += p.name
		}
	}
	return s
}

// Fields is a partial component state keyed by schema field name
type Fields map[string]any

// Record is the state of one component on one entity
type Record[T any] struct {
	Owner EntityID
	Data  T
}

// Definition describes a component type. Default is the schema: its exported
// fields (named by an `ecs:"name"` tag or the Go field name) are the fields a
// caller may supply at attach time. Every hook is optional.
type Definition[T any] struct {
	Name    string
	Default T

	// Priority orders processors inside a pass. Lower values run first;
	// equal priorities keep registration order.
	Priority int

	OnAttach func(id EntityID, state *T) error
	OnDetach func(id EntityID, state *T)
	Tick     func(dt float64, states []*Record[T])
	Render   func(dt float64, states []*Record[T])
}

func (d *Definition[T]) capabilities() Capability {
	var c Capability
	if d.OnAttach != nil {
		c |= CapAttach
	}
	if d.OnDetach != nil {
		c |= CapDetach
	}
	if d.Tick != nil {
		c |= CapTick
	}
	if d.Render != nil {
		c |= CapRender
	}
	return c
}

// Component is a registered component type as seen by untyped call sites.
// Only handles returned by Register or Lookup implement it.
type Component interface {
	ID() ComponentID
	Name() string
	table() table
}

// Attachment pairs a component with optional partial state
type Attachment struct {
	Component Component
	Fields    Fields
}

// With builds an Attachment
func With(c Component, fields Fields) Attachment {
	return Attachment{Component: c, Fields: fields}
}
