package core

// Event represents an entity lifecycle event
type Event struct {
	Type      EventType
	Tick      uint64
	Entity    EntityID
	Component string
}

type EventType uint16

const (
	EvtEntityCreated EventType = iota
	EvtEntityRemoved
	EvtRemovalQueued
	EvtComponentAttached
	EvtComponentDetached
	EvtComponentRegistered
	EvtComponentUnregistered
)

func (t EventType) String() string {
	switch t {
	case EvtEntityCreated:
		return "entity-created"
	case EvtEntityRemoved:
		return "entity-removed"
	case EvtRemovalQueued:
		return "removal-queued"
	case EvtComponentAttached:
		return "component-attached"
	case EvtComponentDetached:
		return "component-detached"
	case EvtComponentRegistered:
		return "component-registered"
	case EvtComponentUnregistered:
		return "component-unregistered"
	}
	return "unknown"
}

// EventBus queues lifecycle events and dispatches them outside of passes
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch. Events nobody listens to are dropped.
func (eb *EventBus) Emit(e Event) {
	if len(eb.listeners[e.Type]) == 0 {
		return
	}
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int { return len(eb.queue) }

// Dispatch processes all queued events. Events emitted by handlers are
// delivered in the same call.
func (eb *EventBus) Dispatch() {
	for i := 0; i < len(eb.queue); i++ {
		e := eb.queue[i]
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
	clear(eb.queue)
	eb.queue = eb.queue[:0]
}
