package core

// processor is one scheduled per-type update
type processor struct {
	id       ComponentID
	name     string
	priority int
	run      func(dt float64)
}

// Scheduler keeps the ordered tick and render processor lists. Processors
// are sorted by priority (lower runs first); equal priorities keep
// registration order.
type Scheduler struct {
	tick    []processor
	render  []processor
	scratch []processor
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) addTick(p processor)   { s.tick = insertProcessor(s.tick, p) }
func (s *Scheduler) addRender(p processor) { s.render = insertProcessor(s.render, p) }

// insertProcessor appends p and moves it back past higher priorities only
func insertProcessor(list []processor, p processor) []processor {
	list = append(list, p)
	for i := len(list) - 1; i > 0; i-- {
		if list[i].priority < list[i-1].priority {
			list[i], list[i-1] = list[i-1], list[i]
		} else {
			break
		}
	}
	return list
}

// remove drops every processor registered for id
func (s *Scheduler) remove(id ComponentID) {
	s.tick = dropProcessor(s.tick, id)
	s.render = dropProcessor(s.render, id)
}

func dropProcessor(list []processor, id ComponentID) []processor {
	out := list[:0]
	for _, p := range list {
		if p.id != id {
			out = append(out, p)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = processor{}
	}
	return out
}

func (s *Scheduler) runTick(dt float64)   { s.run(s.tick, dt) }
func (s *Scheduler) runRender(dt float64) { s.run(s.render, dt) }

// run iterates a snapshot so registrations made during the pass take effect
// from the next pass on.
func (s *Scheduler) run(list []processor, dt float64) {
	s.scratch = append(s.scratch[:0], list...)
	for _, p := range s.scratch {
		p.run(dt)
	}
	clear(s.scratch)
}

// TickOrder returns component names in tick execution order
func (s *Scheduler) TickOrder() []string { return processorNames(s.tick) }

// RenderOrder returns component names in render execution order
func (s *Scheduler) RenderOrder() []string { return processorNames(s.render) }

func processorNames(list []processor) []string {
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.name
	}
	return names
}
