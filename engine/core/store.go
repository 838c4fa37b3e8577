package core

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// table is the type-erased view of a store used by the facade, so entity
// removal and unregistration can work across every component type uniformly.
type table interface {
	id() ComponentID
	name() string
	caps() Capability
	entities() *Entities
	removed() bool
	markRemoved()
	busy() bool
	has(e EntityID) bool
	check(fields Fields) error
	create(e EntityID, fields Fields)
	attachHook(e EntityID) error
	detachHook(e EntityID)
	remove(e EntityID)
	state(e EntityID) (any, bool)
	owners() []EntityID
	size() int
	handle() Component
}

// store is a sparse set of records for one component type: a dense slice in
// attach order plus an index keyed by entity slot.
type store[T any] struct {
	ents      *Entities
	cid       ComponentID
	def       Definition[T]
	capset    Capability
	schema    *schema
	records   []*Record[T]
	sparse    []int32
	iterating int
	dead      bool
}

func (s *store[T]) id() ComponentID      { return s.cid }
func (s *store[T]) name() string         { return s.def.Name }
func (s *store[T]) caps() Capability     { return s.capset }
func (s *store[T]) entities() *Entities  { return s.ents }
func (s *store[T]) removed() bool        { return s.dead }
func (s *store[T]) markRemoved()         { s.dead = true }
func (s *store[T]) busy() bool           { return s.iterating > 0 }
func (s *store[T]) size() int            { return len(s.records) }
func (s *store[T]) check(f Fields) error { return s.schema.check(f) }
func (s *store[T]) handle() Component    { return ComponentType[T]{s: s} }

func (s *store[T]) pos(e EntityID) int {
	idx := e.Index()
	if int(idx) >= len(s.sparse) {
		return -1
	}
	p := s.sparse[idx]
	if p < 0 || s.records[p].Owner != e {
		return -1
	}
	return int(p)
}

func (s *store[T]) has(e EntityID) bool { return s.pos(e) >= 0 }

func (s *store[T]) get(e EntityID) *Record[T] {
	if p := s.pos(e); p >= 0 {
		return s.records[p]
	}
	return nil
}

func (s *store[T]) create(e EntityID, fields Fields) {
	rec := &Record[T]{Owner: e, Data: deepCopy(s.def.Default)}
	if len(fields) > 0 {
		s.schema.apply(reflect.ValueOf(&rec.Data).Elem(), fields)
	}
	idx := int(e.Index())
	for len(s.sparse) <= idx {
		s.sparse = append(s.sparse, -1)
	}
	s.records = append(s.records, rec)
	s.sparse[idx] = int32(len(s.records) - 1)
}

func (s *store[T]) remove(e EntityID) {
	p := s.pos(e)
	if p < 0 {
		return
	}
	last := len(s.records) - 1
	if p < last {
		moved := s.records[last]
		s.records[p] = moved
		s.sparse[moved.Owner.Index()] = int32(p)
	}
	s.records[last] = nil
	s.records = s.records[:last]
	s.sparse[e.Index()] = -1
}

func (s *store[T]) attachHook(e EntityID) error {
	if !s.capset.Has(CapAttach) {
		return nil
	}
	rec := s.get(e)
	if rec == nil {
		return nil
	}
	return s.def.OnAttach(e, &rec.Data)
}

func (s *store[T]) detachHook(e EntityID) {
	if !s.capset.Has(CapDetach) {
		return
	}
	if rec := s.get(e); rec != nil {
		s.def.OnDetach(e, &rec.Data)
	}
}

func (s *store[T]) state(e EntityID) (any, bool) {
	if rec := s.get(e); rec != nil {
		return &rec.Data, true
	}
	return nil, false
}

func (s *store[T]) owners() []EntityID {
	out := make([]EntityID, len(s.records))
	for i, r := range s.records {
		out[i] = r.Owner
	}
	return out
}

// view returns the live records with capacity clipped to length, so appends
// made through the view cannot clobber records attached later.
func (s *store[T]) view() []*Record[T] {
	n := len(s.records)
	return s.records[:n:n]
}

func (s *store[T]) runTick(dt float64) {
	if s.dead {
		return
	}
	s.iterating++
	defer func() { s.iterating-- }()
	s.def.Tick(dt, s.view())
}

func (s *store[T]) runRender(dt float64) {
	if s.dead {
		return
	}
	s.iterating++
	defer func() { s.iterating-- }()
	s.def.Render(dt, s.view())
}

// ComponentType is the typed handle of a registered component type. It is
// bound to the Entities it was registered with and goes stale once the type
// is unregistered.
type ComponentType[T any] struct {
	s *store[T]
}

// ID returns the component id, or 0 for the zero handle
func (c ComponentType[T]) ID() ComponentID {
	if c.s == nil {
		return 0
	}
	return c.s.cid
}

// Name returns the registered name
func (c ComponentType[T]) Name() string {
	if c.s == nil {
		return ""
	}
	return c.s.def.Name
}

func (c ComponentType[T]) table() table {
	if c.s == nil {
		return nil
	}
	return c.s
}

// Capabilities returns the hooks the definition provides
func (c ComponentType[T]) Capabilities() Capability {
	if c.s == nil {
		return 0
	}
	return c.s.capset
}

// Valid reports whether the handle still refers to a registered type
func (c ComponentType[T]) Valid() bool { return c.s != nil && !c.s.dead }

func (c ComponentType[T]) live() (*store[T], error) {
	if !c.Valid() {
		return nil, eris.Wrapf(ErrUnknownComponent, "stale handle for component %q", c.Name())
	}
	return c.s, nil
}

// Has reports whether entity e holds this component
func (c ComponentType[T]) Has(e EntityID) bool {
	return c.Valid() && c.s.has(e)
}

// Get returns e's state. The pointer stays valid until the component is
// detached from e.
func (c ComponentType[T]) Get(e EntityID) (*T, error) {
	rec, err := c.Record(e)
	if err != nil {
		return nil, err
	}
	return &rec.Data, nil
}

// Record returns e's full state record
func (c ComponentType[T]) Record(e EntityID) (*Record[T], error) {
	s, err := c.live()
	if err != nil {
		return nil, err
	}
	rec := s.get(e)
	if rec == nil {
		return nil, eris.Wrapf(ErrComponentNotPresent, "entity %v has no %q", e, s.def.Name)
	}
	return rec, nil
}

// All returns the live table of records in attach order. Detaching reorders
// it; hold on to it only for the duration of one pass.
func (c ComponentType[T]) All() []*Record[T] {
	if !c.Valid() {
		return nil
	}
	return c.s.view()
}

// Len returns the number of holders
func (c ComponentType[T]) Len() int {
	if !c.Valid() {
		return 0
	}
	return len(c.s.records)
}

// ForEach calls fn for every holder until fn returns false. It returns false
// when iteration stopped early. Detaching this component from inside fn fails
// with ErrTableBusy; use QueueRemoval instead.
func (c ComponentType[T]) ForEach(fn func(state *T, id EntityID) bool) bool {
	if !c.Valid() {
		return true
	}
	s := c.s
	s.iterating++
	defer func() { s.iterating-- }()
	for _, rec := range s.view() {
		if !fn(&rec.Data, rec.Owner) {
			return false
		}
	}
	return true
}

// Attach attaches the component to e with optional partial state
func (c ComponentType[T]) Attach(e EntityID, fields Fields) error {
	s, err := c.live()
	if err != nil {
		return err
	}
	return s.ents.attach(e, s, fields, nil)
}

// AttachWith attaches the component to e, letting init adjust the fresh
// state before the attach hook runs.
func (c ComponentType[T]) AttachWith(e EntityID, init func(state *T)) error {
	s, err := c.live()
	if err != nil {
		return err
	}
	var after func()
	if init != nil {
		after = func() {
			if rec := s.get(e); rec != nil {
				init(&rec.Data)
			}
		}
	}
	return s.ents.attach(e, s, nil, after)
}

// Detach removes the component from e
func (c ComponentType[T]) Detach(e EntityID) error {
	s, err := c.live()
	if err != nil {
		return err
	}
	return s.ents.Detach(e, c)
}
