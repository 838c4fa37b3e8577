package core

import "container/heap"

// EntityID is a unique identifier for simulation entities.
// Low 32 bits hold the slot index, high 32 bits the slot generation.
type EntityID uint64

// NilEntity never resolves to a live entity
const NilEntity EntityID = 0

func newEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index of the id
func (id EntityID) Index() uint32 { return uint32(id) }

// Generation returns the slot generation the id was issued with
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// entitySlot is the registry record for one index
type entitySlot struct {
	generation uint32
	alive      bool
	mask       componentMask
}

// entityRegistry owns entity identity and per-entity component membership.
// Released slots bump their generation before going on the free list, so a
// stale id can never resolve to the entity that later reuses the slot.
type entityRegistry struct {
	slots []entitySlot
	free  freeList
	alive int
}

// freeList is a min-heap of released slot indices; the lowest is reused first
type freeList []uint32

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *freeList) Push(x any)        { *f = append(*f, x.(uint32)) }
func (f *freeList) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}

func newEntityRegistry(capacity int) entityRegistry {
	if capacity < 0 {
		capacity = 0
	}
	return entityRegistry{
		slots: make([]entitySlot, 0, capacity),
		free:  make(freeList, 0, capacity/4),
	}
}

func (r *entityRegistry) create() EntityID {
	var idx uint32
	if len(r.free) > 0 {
		idx = heap.Pop(&r.free).(uint32)
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, entitySlot{generation: 1})
	}
	s := &r.slots[idx]
	s.alive = true
	s.mask = componentMask{}
	r.alive++
	return newEntityID(idx, s.generation)
}

// slot returns the live slot for id, or nil for stale and unknown ids
func (r *entityRegistry) slot(id EntityID) *entitySlot {
	idx := id.Index()
	if int(idx) >= len(r.slots) {
		return nil
	}
	s := &r.slots[idx]
	if !s.alive || s.generation != id.Generation() {
		return nil
	}
	return s
}

func (r *entityRegistry) release(id EntityID) {
	s := r.slot(id)
	if s == nil {
		return
	}
	s.alive = false
	s.mask = componentMask{}
	s.generation++
	if s.generation == 0 {
		// wrapped; retire the slot rather than hand out generation 0
		r.alive--
		return
	}
	heap.Push(&r.free, id.Index())
	r.alive--
}

// each calls fn for every live entity in slot order
func (r *entityRegistry) each(fn func(EntityID)) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.alive {
			fn(newEntityID(uint32(i), s.generation))
		}
	}
}
