package core

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Register adds a component type to the simulation and returns its typed
// handle. Tick and render processors take effect from the next pass.
func Register[T any](e *Entities, def Definition[T]) (ComponentType[T], error) {
	var zero ComponentType[T]
	if def.Name == "" {
		return zero, eris.Wrap(ErrInvalidStateShape, "component name is required")
	}
	if _, ok := e.comps.byName[def.Name]; ok {
		return zero, eris.Wrapf(ErrDuplicateComponent, "component %q", def.Name)
	}
	sch, err := newSchema(def.Name, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	cid, ok := e.comps.allocID()
	if !ok {
		return zero, eris.Wrapf(ErrFatalMisuse, "more than %d component types", MaxComponentTypes)
	}

	s := &store[T]{
		ents:   e,
		cid:    cid,
		def:    def,
		capset: def.capabilities(),
		schema: sch,
	}
	e.comps.tables[cid] = s
	e.comps.byName[def.Name] = cid

	if s.capset.Has(CapTick) {
		e.comps.sched.addTick(processor{id: cid, name: def.Name, priority: def.Priority, run: s.runTick})
	}
	if s.capset.Has(CapRender) {
		e.comps.sched.addRender(processor{id: cid, name: def.Name, priority: def.Priority, run: s.runRender})
	}

	e.log.Debug("component registered", "component", def.Name, "id", cid, "caps", s.capset.String())
	e.emit(EvtComponentRegistered, NilEntity, def.Name)
	return ComponentType[T]{s: s}, nil
}

// MustRegister is Register for startup code that cannot continue on error
func MustRegister[T any](e *Entities, def Definition[T]) ComponentType[T] {
	c, err := Register(e, def)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the registered component with the given name
func (e *Entities) Lookup(name string) (Component, error) {
	cid, ok := e.comps.byName[name]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownComponent, "component %q", name)
	}
	return e.comps.tables[cid].handle(), nil
}

// LookupType returns the typed handle of a registered component. It fails
// when the name is unknown or registered with a different state type.
func LookupType[T any](e *Entities, name string) (ComponentType[T], error) {
	c, err := e.Lookup(name)
	if err != nil {
		return ComponentType[T]{}, err
	}
	ct, ok := c.(ComponentType[T])
	if !ok {
		return ComponentType[T]{}, eris.Wrapf(ErrUnknownComponent, "component %q has state type %T", name, c)
	}
	return ct, nil
}

// Unregister detaches the named component from every holder, removes its
// processors and frees its id. Handles to it go stale.
func (e *Entities) Unregister(name string) error {
	cid, ok := e.comps.byName[name]
	if !ok {
		return eris.Wrapf(ErrUnknownComponent, "component %q", name)
	}
	t := e.comps.tables[cid]
	if t.busy() {
		return eris.Wrapf(ErrTableBusy, "unregister %q", name)
	}
	for _, id := range t.owners() {
		if !t.has(id) {
			continue
		}
		if err := e.detach(id, t); err != nil {
			return eris.Wrapf(err, "unregister %q", name)
		}
	}
	e.comps.sched.remove(cid)
	t.markRemoved()
	e.comps.tables[cid] = nil
	delete(e.comps.byName, name)
	e.comps.free = append(e.comps.free, cid)

	e.log.Debug("component unregistered", "component", name, "id", cid)
	e.emit(EvtComponentUnregistered, NilEntity, name)
	return nil
}
