package core

import (
	"slices"
	"testing"

	"github.com/rotisserie/eris"
)

type counter struct {
	N int `ecs:"n"`
}

type tagged struct {
	Tags  []string
	Attrs map[string]int
	Inner struct{ Values []int }
}

func newTestEntities(t *testing.T) *Entities {
	t.Helper()
	return New(DefaultConfig(), nil)
}

func registerCounter(t *testing.T, ents *Entities) ComponentType[counter] {
	t.Helper()
	c, err := Register(ents, Definition[counter]{
		Name: "counter",
		Tick: func(dt float64, states []*Record[counter]) {
			for _, r := range states {
				r.Data.N++
			}
		},
	})
	if err != nil {
		t.Fatalf("register counter: %v", err)
	}
	return c
}

func TestCounterTicks(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	e := ents.CreateEntity()
	if err := ents.Attach(e, c, nil); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := ents.Tick(1); err != nil {
			t.Fatal(err)
		}
	}
	st, err := c.Get(e)
	if err != nil {
		t.Fatal(err)
	}
	if st.N != 3 {
		t.Errorf("expected n == 3 after three ticks, got %d", st.N)
	}
	if ents.TickCount() != 3 {
		t.Errorf("expected tick count 3, got %d", ents.TickCount())
	}
}

func TestAttachPartialState(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	e := ents.CreateEntity()
	if err := ents.Attach(e, c, Fields{"n": 5}); err != nil {
		t.Fatal(err)
	}
	st, err := ents.State(e, c)
	if err != nil {
		t.Fatal(err)
	}
	if got := st.(*counter).N; got != 5 {
		t.Errorf("expected n == 5 before any tick, got %d", got)
	}

	t.Run("numeric conversion", func(t *testing.T) {
		e := ents.CreateEntity()
		if err := c.Attach(e, Fields{"n": 7.0}); err != nil {
			t.Fatal(err)
		}
		st, _ := c.Get(e)
		if st.N != 7 {
			t.Errorf("expected n == 7, got %d", st.N)
		}
	})

	t.Run("typed init", func(t *testing.T) {
		e := ents.CreateEntity()
		if err := c.AttachWith(e, func(s *counter) { s.N = 11 }); err != nil {
			t.Fatal(err)
		}
		st, _ := c.Get(e)
		if st.N != 11 {
			t.Errorf("expected n == 11, got %d", st.N)
		}
	})
}

func TestAttachUnknownField(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	e := ents.CreateEntity()

	err := ents.Attach(e, c, Fields{"bogus": 1})
	if !eris.Is(err, ErrInvalidStateShape) {
		t.Fatalf("expected ErrInvalidStateShape, got %v", err)
	}
	if ents.HasComponent(e, c) {
		t.Error("entity holds counter after a rejected attach")
	}
	if _, err := c.Get(e); !eris.Is(err, ErrComponentNotPresent) {
		t.Errorf("expected ErrComponentNotPresent, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty table, got %d records", c.Len())
	}

	if err := ents.Attach(e, c, Fields{"n": "five"}); !eris.Is(err, ErrInvalidStateShape) {
		t.Errorf("expected ErrInvalidStateShape for a string, got %v", err)
	}
}

func TestFailedAttachKeepsPriorInstance(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	e := ents.CreateEntity()
	if err := c.Attach(e, Fields{"n": 4}); err != nil {
		t.Fatal(err)
	}
	if err := c.Attach(e, Fields{"bogus": 1}); err == nil {
		t.Fatal("expected an error")
	}
	st, err := c.Get(e)
	if err != nil {
		t.Fatalf("prior instance lost: %v", err)
	}
	if st.N != 4 {
		t.Errorf("expected n == 4, got %d", st.N)
	}
}

func TestQueueRemovalTwice(t *testing.T) {
	ents := newTestEntities(t)
	detaches := map[string]int{}
	a, err := Register(ents, Definition[counter]{
		Name:     "a",
		OnDetach: func(id EntityID, s *counter) { detaches["a"]++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Register(ents, Definition[counter]{
		Name:     "b",
		OnDetach: func(id EntityID, s *counter) { detaches["b"]++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	removed := 0
	ents.Events().On(EvtEntityRemoved, func(Event) { removed++ })

	e, err := ents.CreateEntityWith(With(a, nil), With(b, nil))
	if err != nil {
		t.Fatal(err)
	}
	ents.QueueRemoval(e)
	ents.QueueRemoval(e)
	if ents.PendingRemovals() != 1 {
		t.Errorf("expected one pending removal, got %d", ents.PendingRemovals())
	}
	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	ents.Events().Dispatch()

	if ents.Alive(e) {
		t.Error("entity still alive after tick")
	}
	if detaches["a"] != 1 || detaches["b"] != 1 {
		t.Errorf("expected one detach per component, got %v", detaches)
	}
	if removed != 1 {
		t.Errorf("expected one entity removal, got %d", removed)
	}
	if a.Len() != 0 || b.Len() != 0 {
		t.Errorf("removed entity still listed: a=%d b=%d", a.Len(), b.Len())
	}
	if ents.PendingRemovals() != 0 {
		t.Errorf("queue not drained: %d", ents.PendingRemovals())
	}
}

func TestReattachDetachesFirst(t *testing.T) {
	ents := newTestEntities(t)
	var log []string
	c, err := Register(ents, Definition[counter]{
		Name: "logged",
		OnAttach: func(id EntityID, s *counter) error {
			log = append(log, "attach")
			return nil
		},
		OnDetach: func(id EntityID, s *counter) {
			log = append(log, "detach")
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := ents.CreateEntity()
	if err := c.Attach(e, Fields{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.Attach(e, Fields{"n": 2}); err != nil {
		t.Fatal(err)
	}
	want := []string{"attach", "detach", "attach"}
	if !slices.Equal(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
	if c.Len() != 1 {
		t.Errorf("expected one record, got %d", c.Len())
	}
	st, _ := c.Get(e)
	if st.N != 2 {
		t.Errorf("expected the new instance, got n == %d", st.N)
	}
}

func TestDetachHookReadsFinalState(t *testing.T) {
	ents := newTestEntities(t)
	seen := -1
	c, _ := Register(ents, Definition[counter]{
		Name:     "final",
		OnDetach: func(id EntityID, s *counter) { seen = s.N },
	})
	e := ents.CreateEntity()
	_ = c.Attach(e, Fields{"n": 9})
	if err := c.Detach(e); err != nil {
		t.Fatal(err)
	}
	if seen != 9 {
		t.Errorf("detach hook saw n == %d", seen)
	}
	if err := c.Detach(e); !eris.Is(err, ErrComponentNotPresent) {
		t.Errorf("expected ErrComponentNotPresent, got %v", err)
	}
}

func TestAttachHookErrorRollsBack(t *testing.T) {
	ents := newTestEntities(t)
	c, _ := Register(ents, Definition[counter]{
		Name: "picky",
		OnAttach: func(id EntityID, s *counter) error {
			if s.N < 0 {
				return eris.Wrap(ErrFatalMisuse, "negative")
			}
			return nil
		},
	})
	e := ents.CreateEntity()
	if err := c.Attach(e, Fields{"n": -1}); !eris.Is(err, ErrFatalMisuse) {
		t.Fatalf("expected ErrFatalMisuse, got %v", err)
	}
	if ents.HasComponent(e, c) || c.Len() != 0 {
		t.Error("attach partially succeeded")
	}
}

func TestAttachHookMayMutateState(t *testing.T) {
	ents := newTestEntities(t)
	c, _ := Register(ents, Definition[counter]{
		Name: "computed",
		OnAttach: func(id EntityID, s *counter) error {
			if s.N == 0 {
				s.N = int(id.Index()) + 100
			}
			return nil
		},
	})
	e := ents.CreateEntity()
	_ = c.Attach(e, nil)
	st, _ := c.Get(e)
	if st.N != int(e.Index())+100 {
		t.Errorf("hook mutation lost: n == %d", st.N)
	}
}

func TestHasComponentMatchesState(t *testing.T) {
	ents := newTestEntities(t)
	a, _ := Register(ents, Definition[counter]{Name: "a"})
	b, _ := Register(ents, Definition[counter]{Name: "b"})
	var ids []EntityID
	for i := range 6 {
		e := ents.CreateEntity()
		ids = append(ids, e)
		if i%2 == 0 {
			_ = a.Attach(e, nil)
		}
		if i%3 == 0 {
			_ = b.Attach(e, nil)
		}
	}
	_ = a.Detach(ids[2])
	_ = ents.RemoveEntity(ids[3])

	for _, e := range ids {
		for _, c := range []Component{a, b} {
			_, err := ents.State(e, c)
			if ents.HasComponent(e, c) != (err == nil) {
				t.Errorf("entity %v component %s: HasComponent=%v State err=%v",
					e, c.Name(), ents.HasComponent(e, c), err)
			}
		}
	}
}

func TestProcessorSeesFixedCount(t *testing.T) {
	ents := newTestEntities(t)
	var grow ComponentType[counter]
	var seen []int
	visited := 0

	// runs first and attaches another holder before grow's processor
	spawner, _ := Register(ents, Definition[counter]{
		Name:     "spawner",
		Priority: -1,
		Tick: func(dt float64, states []*Record[counter]) {
			_ = grow.Attach(ents.CreateEntity(), nil)
		},
	})
	grow, _ = Register(ents, Definition[counter]{
		Name: "grow",
		Tick: func(dt float64, states []*Record[counter]) {
			n := len(states)
			for _, r := range states {
				visited++
				// attaching mid-call must not show up in this call
				_ = grow.Attach(ents.CreateEntity(), nil)
				r.Data.N++
			}
			seen = append(seen, n)
		},
	})
	_ = spawner.Attach(ents.CreateEntity(), nil)
	_ = grow.Attach(ents.CreateEntity(), nil)

	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	// 1 initial + 1 from spawner
	if seen[0] != 2 || visited != 2 {
		t.Fatalf("expected 2 holders in the first pass, saw %d visited %d", seen[0], visited)
	}
	if grow.Len() != 4 {
		t.Errorf("expected 4 holders after the pass, got %d", grow.Len())
	}
	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	if seen[1] != 5 {
		t.Errorf("expected 5 holders in the second pass, got %d", seen[1])
	}
}

func TestDetachDuringOwnIteration(t *testing.T) {
	ents := newTestEntities(t)
	var c ComponentType[counter]
	var detachErr, removeErr error
	c, _ = Register(ents, Definition[counter]{
		Name: "selfish",
		Tick: func(dt float64, states []*Record[counter]) {
			for _, r := range states {
				detachErr = c.Detach(r.Owner)
				removeErr = ents.RemoveEntity(r.Owner)
				ents.QueueRemoval(r.Owner)
			}
		},
	})
	e := ents.CreateEntity()
	_ = c.Attach(e, nil)

	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	if !eris.Is(detachErr, ErrTableBusy) {
		t.Errorf("expected ErrTableBusy from Detach, got %v", detachErr)
	}
	if !eris.Is(removeErr, ErrTableBusy) {
		t.Errorf("expected ErrTableBusy from RemoveEntity, got %v", removeErr)
	}
	if !ents.Alive(e) || !c.Has(e) {
		t.Fatal("entity changed during its own iteration")
	}
	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	if ents.Alive(e) {
		t.Error("queued removal did not run at the next tick")
	}
}

func TestMutationVisibleToLaterProcessor(t *testing.T) {
	ents := newTestEntities(t)
	var target ComponentType[counter]
	var targetSeen int
	reaper, _ := Register(ents, Definition[counter]{
		Name: "reaper",
		Tick: func(dt float64, states []*Record[counter]) {
			for _, r := range states {
				if err := target.Detach(r.Owner); err != nil {
					t.Errorf("detach of another type failed: %v", err)
				}
			}
		},
	})
	target, _ = Register(ents, Definition[counter]{
		Name: "target",
		Tick: func(dt float64, states []*Record[counter]) { targetSeen = len(states) },
	})
	e := ents.CreateEntity()
	_ = reaper.Attach(e, nil)
	_ = target.Attach(e, nil)
	_ = target.Attach(ents.CreateEntity(), nil)

	_ = ents.Tick(1)
	if targetSeen != 1 {
		t.Errorf("expected later processor to see 1 holder, got %d", targetSeen)
	}
}

func TestReentrantPass(t *testing.T) {
	ents := newTestEntities(t)
	var tickErr, renderErr error
	c, _ := Register(ents, Definition[counter]{
		Name: "reentrant",
		Tick: func(dt float64, states []*Record[counter]) {
			tickErr = ents.Tick(dt)
		},
		Render: func(dt float64, states []*Record[counter]) {
			renderErr = ents.BeforeRender(dt)
		},
	})
	_ = c.Attach(ents.CreateEntity(), nil)
	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	if err := ents.BeforeRender(1); err != nil {
		t.Fatal(err)
	}
	if !eris.Is(tickErr, ErrReentrantPass) {
		t.Errorf("expected ErrReentrantPass from nested Tick, got %v", tickErr)
	}
	if !eris.Is(renderErr, ErrReentrantPass) {
		t.Errorf("expected ErrReentrantPass from nested BeforeRender, got %v", renderErr)
	}
	if ents.TickCount() != 1 {
		t.Errorf("nested tick advanced the counter: %d", ents.TickCount())
	}
}

func TestStaleEntityIDs(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	old := ents.CreateEntity()
	_ = c.Attach(old, nil)
	if err := ents.RemoveEntity(old); err != nil {
		t.Fatal(err)
	}
	fresh := ents.CreateEntity()
	if fresh.Index() != old.Index() {
		t.Fatalf("expected slot reuse, got index %d vs %d", fresh.Index(), old.Index())
	}
	if fresh == old || fresh.Generation() == old.Generation() {
		t.Fatal("reused slot kept its generation")
	}
	if ents.Alive(old) {
		t.Error("stale id resolves")
	}
	if err := c.Attach(old, nil); !eris.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if err := ents.RemoveEntity(old); !eris.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if ents.HasComponent(fresh, c) {
		t.Error("fresh entity inherited a component")
	}
	if ents.Alive(NilEntity) {
		t.Error("nil entity resolves")
	}

	ents.QueueRemoval(old)
	if err := ents.Tick(1); err != nil {
		t.Errorf("stale queued id should be skipped, got %v", err)
	}
	if !ents.Alive(fresh) {
		t.Error("stale removal hit the entity reusing the slot")
	}
}

func TestRemoveEntityOrder(t *testing.T) {
	ents := newTestEntities(t)
	var order []string
	mk := func(name string) ComponentType[counter] {
		c, err := Register(ents, Definition[counter]{
			Name:     name,
			OnDetach: func(id EntityID, s *counter) { order = append(order, name) },
		})
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	a, b, c := mk("a"), mk("b"), mk("c")
	e := ents.CreateEntity()
	_ = c.Attach(e, nil)
	_ = a.Attach(e, nil)
	_ = b.Attach(e, nil)
	if got := ents.ComponentNames(e); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("unexpected component names %v", got)
	}
	if err := ents.RemoveEntity(e); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("expected detach in id order, got %v", order)
	}
	if ents.EntityCount() != 0 {
		t.Errorf("expected no entities, got %d", ents.EntityCount())
	}
}

func TestDetachHookQueuesRemoval(t *testing.T) {
	ents := newTestEntities(t)
	var partner EntityID
	c, _ := Register(ents, Definition[counter]{
		Name: "linked",
		OnDetach: func(id EntityID, s *counter) {
			if id != partner {
				ents.QueueRemoval(partner)
			}
		},
	})
	e := ents.CreateEntity()
	partner = ents.CreateEntity()
	_ = c.Attach(e, nil)
	_ = c.Attach(partner, nil)

	ents.QueueRemoval(e)
	if err := ents.Tick(1); err != nil {
		t.Fatal(err)
	}
	if ents.Alive(e) || ents.Alive(partner) {
		t.Error("removal queued during draining was not drained in the same tick")
	}
}

func TestCreateEntityWithRollsBack(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	_, err := ents.CreateEntityWith(With(c, Fields{"bogus": true}))
	if !eris.Is(err, ErrInvalidStateShape) {
		t.Fatalf("expected ErrInvalidStateShape, got %v", err)
	}
	if ents.EntityCount() != 0 {
		t.Errorf("expected the entity to be removed, %d alive", ents.EntityCount())
	}
}

func TestForEachStopsEarly(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	for range 5 {
		_ = c.Attach(ents.CreateEntity(), nil)
	}
	visited := 0
	done := c.ForEach(func(s *counter, id EntityID) bool {
		visited++
		return visited < 2
	})
	if done || visited != 2 {
		t.Errorf("expected early stop after 2, got done=%v visited=%d", done, visited)
	}
	visited = 0
	if !c.ForEach(func(*counter, EntityID) bool { visited++; return true }) || visited != 5 {
		t.Errorf("expected full iteration, visited %d", visited)
	}

	var busy error
	c.ForEach(func(s *counter, id EntityID) bool {
		busy = c.Detach(id)
		return false
	})
	if !eris.Is(busy, ErrTableBusy) {
		t.Errorf("expected ErrTableBusy inside ForEach, got %v", busy)
	}
}

func TestAllIsAttachOrder(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	var ids []EntityID
	for i := range 3 {
		e := ents.CreateEntity()
		ids = append(ids, e)
		_ = c.Attach(e, Fields{"n": i})
	}
	for i, r := range c.All() {
		if r.Owner != ids[i] || r.Data.N != i {
			t.Errorf("record %d: owner %v n %d", i, r.Owner, r.Data.N)
		}
	}
	_ = c.Detach(ids[0])
	if c.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", c.Len())
	}
	for _, r := range c.All() {
		if r.Owner == ids[0] {
			t.Error("detached record still listed")
		}
	}
}

func TestDefaultsAreDeepCopied(t *testing.T) {
	ents := newTestEntities(t)
	def := tagged{Tags: []string{"a"}, Attrs: map[string]int{"hp": 1}}
	def.Inner.Values = []int{1, 2}
	c, err := Register(ents, Definition[tagged]{Name: "tagged", Default: def})
	if err != nil {
		t.Fatal(err)
	}
	e1, e2 := ents.CreateEntity(), ents.CreateEntity()
	_ = c.Attach(e1, nil)
	_ = c.Attach(e2, nil)
	s1, _ := c.Get(e1)
	s1.Tags[0] = "changed"
	s1.Attrs["hp"] = 99
	s1.Inner.Values[0] = 42

	s2, _ := c.Get(e2)
	if s2.Tags[0] != "a" || s2.Attrs["hp"] != 1 || s2.Inner.Values[0] != 1 {
		t.Errorf("state shared between entities: %+v", s2)
	}
	if def.Tags[0] != "a" || def.Attrs["hp"] != 1 || def.Inner.Values[0] != 1 {
		t.Errorf("defaults mutated: %+v", def)
	}
}

func TestForeignComponent(t *testing.T) {
	a, b := newTestEntities(t), newTestEntities(t)
	c := registerCounter(t, a)
	e := b.CreateEntity()
	if err := b.Attach(e, c, nil); !eris.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}
	if a.ID() == b.ID() {
		t.Error("simulations share an id")
	}
}

func TestTeardown(t *testing.T) {
	ents := newTestEntities(t)
	detached := 0
	c, _ := Register(ents, Definition[counter]{
		Name:     "c",
		OnDetach: func(EntityID, *counter) { detached++ },
	})
	for range 3 {
		_ = c.Attach(ents.CreateEntity(), nil)
	}
	ents.QueueRemoval(ents.CreateEntity())
	if err := ents.Teardown(); err != nil {
		t.Fatal(err)
	}
	if detached != 3 || ents.EntityCount() != 0 || ents.Components().Len() != 0 {
		t.Errorf("teardown left state: detached=%d entities=%d types=%d",
			detached, ents.EntityCount(), ents.Components().Len())
	}
	if c.Valid() {
		t.Error("handle still valid after teardown")
	}
	if ents.PendingRemovals() != 0 {
		t.Error("pending removals survived teardown")
	}
}

func TestEvents(t *testing.T) {
	ents := newTestEntities(t)
	var got []EventType
	for _, et := range []EventType{EvtEntityCreated, EvtComponentAttached, EvtComponentDetached, EvtEntityRemoved} {
		ents.Events().On(et, func(ev Event) { got = append(got, ev.Type) })
	}
	c := registerCounter(t, ents)
	e := ents.CreateEntity()
	_ = c.Attach(e, nil)
	_ = ents.RemoveEntity(e)
	if len(got) != 0 {
		t.Fatal("events delivered before Dispatch")
	}
	ents.Events().Dispatch()
	want := []EventType{EvtEntityCreated, EvtComponentAttached, EvtComponentDetached, EvtEntityRemoved}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSharedComponentSet(t *testing.T) {
	comps := NewComponents()
	if _, err := NewWithComponents(DefaultConfig(), comps, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWithComponents(DefaultConfig(), comps, nil); !eris.Is(err, ErrFatalMisuse) {
		t.Errorf("expected ErrFatalMisuse binding a set twice, got %v", err)
	}
}

type hidden struct {
	Visible int
	hits    map[string]int
	trail   []int
}

func TestUnexportedDefaultsAreCopied(t *testing.T) {
	ents := newTestEntities(t)
	c, err := Register(ents, Definition[hidden]{
		Name:    "hidden",
		Default: hidden{hits: map[string]int{}, trail: []int{1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	a, b := ents.CreateEntity(), ents.CreateEntity()
	_ = c.Attach(a, nil)
	_ = c.Attach(b, nil)
	sa, _ := c.Get(a)
	sa.hits["x"] = 1
	sa.trail[0] = 7

	sb, _ := c.Get(b)
	if _, ok := sb.hits["x"]; ok || sb.trail[0] != 1 {
		t.Errorf("unexported state shared between entities: %+v", sb)
	}
	if err := ents.Attach(a, c, Fields{"hits": nil}); !eris.Is(err, ErrInvalidStateShape) {
		t.Errorf("unexported fields must not be settable at attach, got %v", err)
	}
}

func TestDetachHookRunsOnce(t *testing.T) {
	ents := newTestEntities(t)
	calls := 0
	var nested, removal error
	var c ComponentType[counter]
	c, _ = Register(ents, Definition[counter]{
		Name: "self",
		OnDetach: func(id EntityID, _ *counter) {
			calls++
			if calls > 3 {
				return
			}
			nested = c.Detach(id)
			removal = ents.RemoveEntity(id)
		},
	})
	e := ents.CreateEntity()
	_ = c.Attach(e, nil)
	if err := c.Detach(e); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected one detach hook call, got %d", calls)
	}
	if !eris.Is(nested, ErrComponentNotPresent) {
		t.Errorf("expected ErrComponentNotPresent from a nested detach, got %v", nested)
	}
	if !eris.Is(removal, ErrTableBusy) {
		t.Errorf("expected ErrTableBusy removing from the hook, got %v", removal)
	}
	if c.Has(e) || ents.HasComponent(e, c) || !ents.Alive(e) {
		t.Error("detach left the wrong state behind")
	}

	// the guard is per instance; a later detach runs the hook again
	calls = 10
	_ = c.Attach(e, nil)
	if err := ents.RemoveEntity(e); err != nil {
		t.Fatal(err)
	}
	if calls != 11 {
		t.Errorf("expected the hook to run for the second instance, got %d", calls)
	}
}

func TestTickDispatchesEvents(t *testing.T) {
	ents := newTestEntities(t)
	queued := 0
	ents.Events().On(EvtRemovalQueued, func(Event) { queued++ })
	for range 1000 {
		ents.QueueRemoval(ents.CreateEntity())
		if err := ents.Tick(1); err != nil {
			t.Fatal(err)
		}
	}
	if ents.Events().Pending() != 0 || queued != 1000 {
		t.Errorf("expected every event delivered by Tick, pending %d delivered %d", ents.Events().Pending(), queued)
	}

	ents.QueueRemoval(ents.CreateEntity())
	if err := ents.BeforeRender(1); err != nil {
		t.Fatal(err)
	}
	if ents.Events().Pending() != 0 || queued != 1001 {
		t.Errorf("expected BeforeRender to dispatch, pending %d", ents.Events().Pending())
	}
}

func TestAttachWithRemovingEntity(t *testing.T) {
	ents := newTestEntities(t)
	c := registerCounter(t, ents)
	e := ents.CreateEntity()
	err := c.AttachWith(e, func(*counter) {
		_ = ents.RemoveEntity(e)
	})
	if !eris.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("orphan record left behind, %d records", c.Len())
	}
}

func TestLowestFreeSlotReused(t *testing.T) {
	ents := newTestEntities(t)
	a, b, c := ents.CreateEntity(), ents.CreateEntity(), ents.CreateEntity()
	_ = ents.RemoveEntity(c)
	_ = ents.RemoveEntity(a)
	if got := ents.CreateEntity(); got.Index() != a.Index() {
		t.Errorf("expected slot %d first, got %d", a.Index(), got.Index())
	}
	if got := ents.CreateEntity(); got.Index() != c.Index() {
		t.Errorf("expected slot %d next, got %d", c.Index(), got.Index())
	}
	if !ents.Alive(b) {
		t.Error("untouched entity removed")
	}
}
