package core

// removalSet is an ordered, deduplicated queue of entities awaiting removal
type removalSet struct {
	order  []EntityID
	head   int
	queued map[EntityID]struct{}
}

func newRemovalSet() removalSet {
	return removalSet{queued: make(map[EntityID]struct{})}
}

// add queues id; it reports false when id is already queued
func (r *removalSet) add(id EntityID) bool {
	if _, ok := r.queued[id]; ok {
		return false
	}
	r.queued[id] = struct{}{}
	r.order = append(r.order, id)
	return true
}

func (r *removalSet) pop() (EntityID, bool) {
	if r.head >= len(r.order) {
		r.order = r.order[:0]
		r.head = 0
		return NilEntity, false
	}
	id := r.order[r.head]
	r.head++
	delete(r.queued, id)
	return id, true
}

func (r *removalSet) len() int { return len(r.order) - r.head }

func (r *removalSet) reset() {
	r.order = r.order[:0]
	r.head = 0
	clear(r.queued)
}
