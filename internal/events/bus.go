// Package events carries input and render notifications between the driver
// and its front ends.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case KeyEvent:
		event.Publish(b.dispatcher, e)
	case EncoderEvent:
		event.Publish(b.dispatcher, e)
	case LayerEvent:
		event.Publish(b.dispatcher, e)
	case CapsLockEvent:
		event.Publish(b.dispatcher, e)
	case FrameEvent:
		event.Publish(b.dispatcher, e)
	case StatusEvent:
		event.Publish(b.dispatcher, e)
	case PomodoroEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type it accepts and returns an
// unsubscribe function. Unknown handler types get a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(KeyEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(EncoderEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LayerEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CapsLockEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FrameEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StatusEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PomodoroEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

