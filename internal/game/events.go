package game

import (
	"sort"

	"github.com/peterkuimelis/gridclash/internal/log"
)

// Listener receives game events after they are committed.
type Listener func(log.GameEvent)

// TypedListener is a listener filtered to one event type.
type TypedListener struct {
	Handle    int
	EventType log.EventType
	Callback  Listener
}

// EventBus delivers events synchronously to subscribers in subscription order.
// Listeners must not call back into the Manager while an event is being delivered.
type EventBus struct {
	listeners      map[int]Listener
	typedListeners map[log.EventType][]TypedListener
	nextHandle     int
}

func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[log.EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a single event type.
func (bus *EventBus) SubscribeTyped(eventType log.EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener with the given handle.
func (bus *EventBus) Unsubscribe(handle int) {
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers event to every matching listener.
func (bus *EventBus) Publish(event log.GameEvent) {
	handles := make([]int, 0, len(bus.listeners))
	for h := range bus.listeners {
		handles = append(handles, h)
	}
	sort.Ints(handles)
	for _, h := range handles {
		bus.listeners[h](event)
	}
	for _, tl := range bus.typedListeners[event.Type] {
		tl.Callback(event)
	}
}

// recorder stamps events with the current turn and phase, appends them to the event
// log, and publishes them. A nil recorder discards everything, which lets player and
// battle operations run standalone in tests.
type recorder struct {
	state  *GameState
	logger log.EventLogger
	bus    *EventBus
	seq    int
}

func (r *recorder) turn() int {
	if r == nil || r.state == nil {
		return 0
	}
	return r.state.Turn
}

func (r *recorder) phase() string {
	if r == nil || r.state == nil {
		return ""
	}
	return r.state.Phase.String()
}

func (r *recorder) emit(e log.GameEvent) {
	if r == nil {
		return
	}
	r.seq++
	e.Seq = r.seq
	if r.logger != nil {
		r.logger.Log(e)
	}
	if r.bus != nil {
		r.bus.Publish(e)
	}
}
