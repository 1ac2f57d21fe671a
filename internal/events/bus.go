package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Handlers run asynchronously, in
// publish order per subscriber.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers ev to the subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DeviceProbedEvent:
		event.Publish(b.dispatcher, e)
	case ProbeFailedEvent:
		event.Publish(b.dispatcher, e)
	case DeviceRemovedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler; its parameter type selects the events it
// receives. Unknown handler types get a no-op unsubscribe.
//
//	unsub := bus.Subscribe(func(e DeviceRemovedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DeviceProbedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProbeFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DeviceRemovedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

