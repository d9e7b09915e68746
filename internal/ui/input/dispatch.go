// Package input turns keymap actions into bus events.
package input

import (
	"mid1lights/internal/core/model"
	"mid1lights/internal/events"
	"mid1lights/internal/storage"
)

// State is what a front end last heard about toggled inputs.
type State struct {
	Layers   model.LayerState
	CapsLock bool
}

// Publish sends the events for one activation of action. Layer and caps
// bindings toggle relative to state.
func Publish(bus *events.Bus, action storage.Action, state State) {
	switch action.Kind {
	case storage.ActionKey:
		bus.Publish(events.KeyEvent{Keycode: action.Keycode, Pressed: true})
		bus.Publish(events.KeyEvent{Keycode: action.Keycode, Pressed: false})
	case storage.ActionLayer:
		bus.Publish(events.LayerEvent{Layer: action.Layer, Active: !state.Layers.Has(action.Layer)})
	case storage.ActionEncoder:
		bus.Publish(events.EncoderEvent{Index: action.Encoder, Clockwise: action.Clockwise})
	case storage.ActionCapsLock:
		bus.Publish(events.CapsLockEvent{On: !state.CapsLock})
	}
}
