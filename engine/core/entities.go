package core

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/oklog/ulid/v2"
	"github.com/rotisserie/eris"
)

type passKind uint8

const (
	passIdle passKind = iota
	passTick
	passRender
)

func (p passKind) String() string {
	switch p {
	case passTick:
		return "tick"
	case passRender:
		return "render"
	}
	return "idle"
}

// Components holds the registered component types and the processor
// schedule of one simulation. It is created at startup, bound to exactly one
// Entities, and emptied by Entities.Teardown.
type Components struct {
	tables []table
	byName map[string]ComponentID
	free   []ComponentID
	sched  *Scheduler
	owner  *Entities
}

// NewComponents creates an empty component set
func NewComponents() *Components {
	return &Components{
		byName: make(map[string]ComponentID),
		sched:  NewScheduler(),
	}
}

// Scheduler returns the processor schedule
func (c *Components) Scheduler() *Scheduler { return c.sched }

// Len returns the number of registered types
func (c *Components) Len() int { return len(c.byName) }

// Names returns registered type names ordered by ComponentID
func (c *Components) Names() []string {
	names := make([]string, 0, len(c.byName))
	for _, t := range c.tables {
		if t != nil {
			names = append(names, t.name())
		}
	}
	return names
}

func (c *Components) allocID() (ComponentID, bool) {
	if n := len(c.free); n > 0 {
		// lowest free id first keeps removal order stable across re-registration
		sort.Slice(c.free, func(i, j int) bool { return c.free[i] > c.free[j] })
		id := c.free[n-1]
		c.free = c.free[:n-1]
		return id, true
	}
	if len(c.tables) >= MaxComponentTypes {
		return 0, false
	}
	c.tables = append(c.tables, nil)
	return ComponentID(len(c.tables) - 1), true
}

// detachKey names one component instance whose detach hook is running
type detachKey struct {
	id  EntityID
	cid ComponentID
}

// Entities is the simulation facade: entity lifecycle, component
// attachment, the deferred removal queue, and the tick and render passes.
// It is single-threaded; only the driver loop calls Tick and BeforeRender.
type Entities struct {
	cfg     Config
	log     *slog.Logger
	id      ulid.ULID
	reg     entityRegistry
	comps   *Components
	pending removalSet
	events  *EventBus
	pass    passKind
	ticks   uint64

	detaching map[detachKey]struct{}
}

// New creates a simulation with its own component set. A nil logger
// discards output.
func New(cfg Config, logger *slog.Logger) *Entities {
	e, _ := NewWithComponents(cfg, NewComponents(), logger)
	return e
}

// NewWithComponents creates a simulation around an existing component set
func NewWithComponents(cfg Config, comps *Components, logger *slog.Logger) (*Entities, error) {
	if comps == nil {
		comps = NewComponents()
	}
	if comps.owner != nil {
		return nil, eris.Wrapf(ErrFatalMisuse, "component set already bound to simulation %s", comps.owner.id)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg = cfg.withDefaults()
	id := ulid.Make()
	e := &Entities{
		cfg:       cfg,
		log:       logger.With("sim", id.String()),
		id:        id,
		reg:       newEntityRegistry(cfg.InitialCapacity),
		comps:     comps,
		pending:   newRemovalSet(),
		events:    NewEventBus(),
		detaching: make(map[detachKey]struct{}),
	}
	comps.owner = e
	return e, nil
}

// ID returns the simulation instance id used in logs
func (e *Entities) ID() ulid.ULID { return e.id }

// Config returns the settings the simulation was created with
func (e *Entities) Config() Config { return e.cfg }

// Logger returns the simulation logger
func (e *Entities) Logger() *slog.Logger { return e.log }

// Events returns the lifecycle event bus
func (e *Entities) Events() *EventBus { return e.events }

// Components returns the registered component set
func (e *Entities) Components() *Components { return e.comps }

// TickCount returns the number of completed ticks
func (e *Entities) TickCount() uint64 { return e.ticks }

// EntityCount returns the number of live entities
func (e *Entities) EntityCount() int { return e.reg.alive }

func (e *Entities) emit(t EventType, id EntityID, comp string) {
	e.events.Emit(Event{Type: t, Tick: e.ticks, Entity: id, Component: comp})
}

// CreateEntity allocates a fresh entity with no components
func (e *Entities) CreateEntity() EntityID {
	id := e.reg.create()
	e.emit(EvtEntityCreated, id, "")
	return id
}

// CreateEntityWith creates an entity and attaches each listed component in
// order. If any attach fails the entity is removed again.
func (e *Entities) CreateEntityWith(atts ...Attachment) (EntityID, error) {
	id := e.CreateEntity()
	for _, a := range atts {
		if err := e.Attach(id, a.Component, a.Fields); err != nil {
			if rmErr := e.RemoveEntity(id); rmErr != nil {
				return NilEntity, errors.Join(err, rmErr)
			}
			return NilEntity, err
		}
	}
	return id, nil
}

// Alive reports whether id refers to a live entity
func (e *Entities) Alive(id EntityID) bool { return e.reg.slot(id) != nil }

// HasComponent reports whether id holds c
func (e *Entities) HasComponent(id EntityID, c Component) bool {
	t, err := e.resolve(c)
	if err != nil {
		return false
	}
	s := e.reg.slot(id)
	return s != nil && s.mask.has(t.id())
}

// ComponentNames lists the components id holds, ordered by ComponentID
func (e *Entities) ComponentNames(id EntityID) []string {
	s := e.reg.slot(id)
	if s == nil {
		return nil
	}
	names := make([]string, 0, s.mask.count())
	for cid, t := range e.comps.tables {
		if t != nil && s.mask.has(ComponentID(cid)) {
			names = append(names, t.name())
		}
	}
	return names
}

func (e *Entities) resolve(c Component) (table, error) {
	if c == nil {
		return nil, eris.Wrap(ErrUnknownComponent, "nil component")
	}
	t := c.table()
	if t == nil || t.removed() {
		return nil, eris.Wrapf(ErrUnknownComponent, "component %q is not registered", c.Name())
	}
	if t.entities() != e {
		return nil, eris.Wrapf(ErrUnknownComponent, "component %q belongs to another simulation", c.Name())
	}
	return t, nil
}

// Attach attaches c to id. Fields must name schema fields; they are
// shallow-merged over fresh defaults. If id already holds c, the old
// instance is fully detached first. An attach hook error undoes the attach.
func (e *Entities) Attach(id EntityID, c Component, fields Fields) error {
	t, err := e.resolve(c)
	if err != nil {
		return err
	}
	return e.attach(id, t, fields, nil)
}

func (e *Entities) attach(id EntityID, t table, fields Fields, init func()) error {
	slot := e.reg.slot(id)
	if slot == nil {
		return eris.Wrapf(ErrUnknownEntity, "attach %q to entity %v", t.name(), id)
	}
	if err := t.check(fields); err != nil {
		return err
	}
	if slot.mask.has(t.id()) {
		if err := e.detach(id, t); err != nil {
			return err
		}
		// hooks may create entities and grow the slot table; never reuse slot
		if slot = e.reg.slot(id); slot == nil {
			return eris.Wrapf(ErrUnknownEntity, "entity %v removed while re-attaching %q", id, t.name())
		}
	}
	t.create(id, fields)
	if init != nil {
		init()
		if slot = e.reg.slot(id); slot == nil {
			t.remove(id)
			return eris.Wrapf(ErrUnknownEntity, "entity %v removed while attaching %q", id, t.name())
		}
	}
	slot.mask.set(t.id())
	if err := t.attachHook(id); err != nil {
		t.remove(id)
		if s := e.reg.slot(id); s != nil {
			s.mask.unset(t.id())
		}
		return eris.Wrapf(err, "attach %q to entity %v", t.name(), id)
	}
	e.log.Debug("component attached", "entity", id, "component", t.name())
	e.emit(EvtComponentAttached, id, t.name())
	return nil
}

// Detach runs c's detach hook for id, then deletes the state record
func (e *Entities) Detach(id EntityID, c Component) error {
	t, err := e.resolve(c)
	if err != nil {
		return err
	}
	slot := e.reg.slot(id)
	if slot == nil {
		return eris.Wrapf(ErrUnknownEntity, "detach %q from entity %v", t.name(), id)
	}
	if !slot.mask.has(t.id()) {
		return eris.Wrapf(ErrComponentNotPresent, "entity %v has no %q", id, t.name())
	}
	return e.detach(id, t)
}

func (e *Entities) detach(id EntityID, t table) error {
	key := detachKey{id, t.id()}
	if _, ok := e.detaching[key]; ok {
		return eris.Wrapf(ErrComponentNotPresent, "%q is already detaching from entity %v", t.name(), id)
	}
	if t.busy() {
		return eris.Wrapf(ErrTableBusy, "detach %q from entity %v", t.name(), id)
	}
	e.detaching[key] = struct{}{}
	t.detachHook(id)
	delete(e.detaching, key)
	t.remove(id)
	if s := e.reg.slot(id); s != nil {
		s.mask.unset(t.id())
	}
	e.log.Debug("component detached", "entity", id, "component", t.name())
	e.emit(EvtComponentDetached, id, t.name())
	return nil
}

// State returns id's state for c as a pointer to the component's state type
func (e *Entities) State(id EntityID, c Component) (any, error) {
	t, err := e.resolve(c)
	if err != nil {
		return nil, err
	}
	st, ok := t.state(id)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotPresent, "entity %v has no %q", id, t.name())
	}
	return st, nil
}

// RemoveEntity detaches every component of id in ascending ComponentID
// order, running detach hooks, then retires the id. Prefer QueueRemoval from
// inside hooks and processors.
func (e *Entities) RemoveEntity(id EntityID) error {
	slot := e.reg.slot(id)
	if slot == nil {
		return eris.Wrapf(ErrUnknownEntity, "remove entity %v", id)
	}
	for cid, t := range e.comps.tables {
		if t == nil || !slot.mask.has(ComponentID(cid)) {
			continue
		}
		if t.busy() {
			return eris.Wrapf(ErrTableBusy, "remove entity %v while %q is iterated", id, t.name())
		}
		if _, ok := e.detaching[detachKey{id, ComponentID(cid)}]; ok {
			return eris.Wrapf(ErrTableBusy, "remove entity %v from its own %q detach hook; queue it instead", id, t.name())
		}
	}
	for guard := 0; ; guard++ {
		s := e.reg.slot(id)
		if s == nil {
			// a detach hook removed the entity already
			return nil
		}
		cid, ok := s.mask.first()
		if !ok {
			break
		}
		if guard > 2*MaxComponentTypes {
			return eris.Wrapf(ErrFatalMisuse, "detach hooks keep re-attaching components to entity %v", id)
		}
		if err := e.detach(id, e.comps.tables[cid]); err != nil {
			return err
		}
	}
	e.reg.release(id)
	e.log.Debug("entity removed", "entity", id)
	e.emit(EvtEntityRemoved, id, "")
	return nil
}

// QueueRemoval schedules id for removal at the start of the next tick.
// Queuing the same id again has no further effect.
func (e *Entities) QueueRemoval(id EntityID) {
	if e.pending.add(id) {
		e.emit(EvtRemovalQueued, id, "")
	}
}

// PendingRemovals returns the number of queued removals
func (e *Entities) PendingRemovals() int { return e.pending.len() }

func (e *Entities) drainRemovals() error {
	var errs []error
	for {
		id, ok := e.pending.pop()
		if !ok {
			break
		}
		if !e.Alive(id) {
			e.log.Warn("skipping queued removal of stale entity", "entity", id)
			continue
		}
		if err := e.RemoveEntity(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tick drains the removal queue, then runs every tick processor in order.
// Lifecycle events queued during the pass are dispatched once it ends.
func (e *Entities) Tick(dt float64) error {
	if e.pass != passIdle {
		return eris.Wrapf(ErrReentrantPass, "tick called during %s pass", e.pass)
	}
	err := e.tick(dt)
	e.events.Dispatch()
	return err
}

func (e *Entities) tick(dt float64) error {
	e.pass = passTick
	defer func() { e.pass = passIdle }()

	err := e.drainRemovals()
	e.comps.sched.runTick(dt)
	e.ticks++
	return err
}

// BeforeRender runs every render processor in order, then dispatches
// queued lifecycle events
func (e *Entities) BeforeRender(dt float64) error {
	if e.pass != passIdle {
		return eris.Wrapf(ErrReentrantPass, "beforeRender called during %s pass", e.pass)
	}
	e.render(dt)
	e.events.Dispatch()
	return nil
}

func (e *Entities) render(dt float64) {
	e.pass = passRender
	defer func() { e.pass = passIdle }()
	e.comps.sched.runRender(dt)
}

// Teardown removes every entity and unregisters every component type. The
// simulation stays usable afterwards but starts empty.
func (e *Entities) Teardown() error {
	if e.pass != passIdle {
		return eris.Wrapf(ErrReentrantPass, "teardown called during %s pass", e.pass)
	}
	var ids []EntityID
	e.reg.each(func(id EntityID) { ids = append(ids, id) })
	var errs []error
	for _, id := range ids {
		if !e.Alive(id) {
			continue
		}
		if err := e.RemoveEntity(id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range e.comps.Names() {
		if err := e.Unregister(name); err != nil {
			errs = append(errs, err)
		}
	}
	e.pending.reset()
	e.log.Info("simulation torn down", "ticks", e.ticks)
	return errors.Join(errs...)
}
