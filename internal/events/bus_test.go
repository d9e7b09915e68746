package events

import (
	"testing"
	"time"

	"mid1lights/internal/core/model"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan KeyEvent, 1)

	unsub := bus.Subscribe(func(e KeyEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(KeyEvent{Keycode: model.PomoToggle, Pressed: true})

	select {
	case got := <-received:
		if got.Keycode != model.PomoToggle || !got.Pressed {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_RoutesByType(t *testing.T) {
	bus := New()
	frames := make(chan FrameEvent, 1)
	layers := make(chan LayerEvent, 1)

	defer bus.Subscribe(func(e FrameEvent) { frames <- e })()
	defer bus.Subscribe(func(e LayerEvent) { layers <- e })()

	bus.Publish(LayerEvent{Layer: 6, Active: true})

	select {
	case got := <-layers:
		if got.Layer != 6 {
			t.Errorf("layer = %d", got.Layer)
		}
	case <-time.After(time.Second):
		t.Fatal("layer event not delivered")
	}

	select {
	case got := <-frames:
		t.Errorf("frame handler received %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan CapsLockEvent, 1)

	unsub := bus.Subscribe(func(e CapsLockEvent) { received <- e })
	unsub()

	bus.Publish(CapsLockEvent{On: true})

	select {
	case <-received:
		t.Error("received event after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	unsub()
}
